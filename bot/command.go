// Package bot wires the chat event loop, command dispatch, info query handlers, and the
// broadcast scheduler on top of the chzzk transport and the stats store.
package bot

import "strings"

// CmdKind tags the recognized chat commands. CmdNone means the message is not a
// command and gets no reaction.
type CmdKind int

const (
	CmdNone CmdKind = iota
	CmdGame
	CmdStock
	CmdUptime
	CmdViewers
	CmdTitle
	CmdHelp
	CmdFollow
)

func (k CmdKind) String() string {
	switch k {
	case CmdGame:
		return "game"
	case CmdStock:
		return "stock"
	case CmdUptime:
		return "uptime"
	case CmdViewers:
		return "viewers"
	case CmdTitle:
		return "title"
	case CmdHelp:
		return "help"
	case CmdFollow:
		return "follow"
	default:
		return "none"
	}
}

// Command is one parsed chat message. Arg is the positional second token for the
// prefix commands; empty when absent. Arguments are split on whitespace only — no
// quoting or multi-word arguments.
type Command struct {
	Kind CmdKind
	Arg  string
}

const (
	gamePrefix  = "!가위바위보"
	stockPrefix = "!주가"
)

// ParseCommand classifies one message's text in a single pass. Anything that is not
// a recognized prefix or exact command parses to CmdNone.
func ParseCommand(text string) Command {
	switch {
	case strings.HasPrefix(text, gamePrefix):
		return Command{Kind: CmdGame, Arg: secondToken(text)}
	case strings.HasPrefix(text, stockPrefix):
		return Command{Kind: CmdStock, Arg: secondToken(text)}
	}
	switch text {
	case "!업타임":
		return Command{Kind: CmdUptime}
	case "!시청자수":
		return Command{Kind: CmdViewers}
	case "!방제":
		return Command{Kind: CmdTitle}
	case "!명령어":
		return Command{Kind: CmdHelp}
	case "!팔로우":
		return Command{Kind: CmdFollow}
	}
	return Command{Kind: CmdNone}
}

// secondToken returns the second whitespace-delimited token, or "" when absent.
// Extra tokens beyond the second are ignored.
func secondToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}
