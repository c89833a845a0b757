package bot

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text string
		kind CmdKind
		arg  string
	}{
		{"!가위바위보 바위", CmdGame, "바위"},
		{"!가위바위보 가위 보", CmdGame, "가위"}, // extra tokens ignored
		{"!가위바위보", CmdGame, ""},
		{"!가위바위보    보", CmdGame, "보"},
		{"!주가 삼성", CmdStock, "삼성"},
		{"!주가", CmdStock, ""},
		{"!업타임", CmdUptime, ""},
		{"!시청자수", CmdViewers, ""},
		{"!방제", CmdTitle, ""},
		{"!명령어", CmdHelp, ""},
		{"!팔로우", CmdFollow, ""},
		// Exact commands take no arguments; trailing text makes them unrecognized.
		{"!업타임 지금", CmdNone, ""},
		{"!팔로우요", CmdNone, ""},
		// Ordinary chat is silently ignored.
		{"안녕하세요", CmdNone, ""},
		{"", CmdNone, ""},
		{"가위바위보 바위", CmdNone, ""},
		{"!없는명령", CmdNone, ""},
	}
	for _, tt := range tests {
		got := ParseCommand(tt.text)
		if got.Kind != tt.kind || got.Arg != tt.arg {
			t.Errorf("ParseCommand(%q) = {%v %q}, want {%v %q}", tt.text, got.Kind, got.Arg, tt.kind, tt.arg)
		}
	}
}

func TestCmdKindString(t *testing.T) {
	kinds := []CmdKind{CmdNone, CmdGame, CmdStock, CmdUptime, CmdViewers, CmdTitle, CmdHelp, CmdFollow}
	seen := map[string]bool{}
	for _, k := range kinds {
		s := k.String()
		if s == "" {
			t.Errorf("CmdKind(%d).String() is empty", k)
		}
		if seen[s] {
			t.Errorf("duplicate kind label %q", s)
		}
		seen[s] = true
	}
}
