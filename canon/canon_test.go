package canon

import (
	"reflect"
	"testing"
)

func TestPermissionsSimplify(t *testing.T) {
	perms := Permissions{
		"bash": PermissionRule{Patterns: map[string]Action{"*": ActionAllow}},
		"read": PermissionRule{Patterns: map[string]Action{"*": ActionAllow, "secrets/*": ActionDeny}},
	}
	simplified := perms.Simplify()

	if simplified["bash"].IsPatterned() {
		t.Errorf("bash rule should collapse to a bare action, got %+v", simplified["bash"])
	}
	if simplified["bash"].Action != ActionAllow {
		t.Errorf("bash collapsed action = %q, want allow", simplified["bash"].Action)
	}
	if !simplified["read"].IsPatterned() {
		t.Errorf("read rule has two patterns, should stay patterned: %+v", simplified["read"])
	}
}

func TestPermissionsSimplifyIsIdempotent(t *testing.T) {
	perms := Permissions{"bash": PermissionRule{Patterns: map[string]Action{"*": ActionDeny}}}
	once := perms.Simplify()
	twice := once.Simplify()
	if !reflect.DeepEqual(once["bash"], twice["bash"]) {
		t.Errorf("Simplify is not idempotent: once=%+v twice=%+v", once["bash"], twice["bash"])
	}
}

func TestPermissionsDefault(t *testing.T) {
	if got := Permissions{}.Default(); got != ActionAsk {
		t.Errorf("Default() on empty Permissions = %q, want ask", got)
	}
	perms := Permissions{"*": PermissionRule{Action: ActionAllow}}
	if got := perms.Default(); got != ActionAllow {
		t.Errorf("Default() = %q, want allow", got)
	}
}

func TestPermissionsCloneIsDeep(t *testing.T) {
	original := Permissions{"bash": PermissionRule{Patterns: map[string]Action{"*": ActionAllow}}}
	clone := original.Clone()
	clone["bash"].Patterns["*"] = ActionDeny
	if original["bash"].Patterns["*"] != ActionAllow {
		t.Errorf("mutating the clone affected the original: %+v", original["bash"])
	}
}

func TestActionValid(t *testing.T) {
	for _, a := range []Action{ActionAllow, ActionDeny, ActionAsk} {
		if !a.Valid() {
			t.Errorf("Action(%q).Valid() = false, want true", a)
		}
	}
	if Action("maybe").Valid() {
		t.Errorf(`Action("maybe").Valid() = true, want false`)
	}
}

func TestConvertedSessionValidate(t *testing.T) {
	valid := ConvertedSession{
		ProjectID: "proj-1",
		Session:   Session{ID: "sess-1", ProjectID: "proj-1"},
		Messages: []Message{
			{ID: "msg-1", SessionID: "sess-1", Parts: []Part{{ID: "part-1", MessageID: "msg-1"}}},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() on a consistent session = %v, want nil", err)
	}

	mismatchedProject := valid
	mismatchedProject.Session.ProjectID = "other-project"
	if err := mismatchedProject.Validate(); err == nil {
		t.Errorf("expected an error for a mismatched session.projectID")
	}

	mismatchedSession := valid
	mismatchedSession.Messages = []Message{{ID: "msg-1", SessionID: "wrong-session"}}
	if err := mismatchedSession.Validate(); err == nil {
		t.Errorf("expected an error for a mismatched message.sessionID")
	}
}

func TestSupportedConversionsExcludesIdentityPairs(t *testing.T) {
	pairs := SupportedConversions()
	if len(pairs) != 6 {
		t.Fatalf("SupportedConversions() has %d pairs, want 6 (3 formats x 2 directions)", len(pairs))
	}
	for _, p := range pairs {
		if p.From == p.To {
			t.Errorf("SupportedConversions() includes an identity pair: %+v", p)
		}
	}
}

func TestFormatValid(t *testing.T) {
	if !ClaudeCode.Valid() || !OpenCode.Valid() || !Cursor.Valid() {
		t.Errorf("all three known formats should be Valid()")
	}
	if Format("not-a-format").Valid() {
		t.Errorf(`Format("not-a-format").Valid() = true, want false`)
	}
}
