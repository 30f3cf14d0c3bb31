package bot

import "strings"

type CommandKind int

const (
	CmdMenu CommandKind = iota
	CmdHelp
	CmdBind
	CmdStatus
	CmdOrder // default: treat the text as an order
)

// Command is a closed set; the dispatch switch in handleText covers every
// kind, so there is no "no matching command" path at runtime.
type Command struct {
	Kind CommandKind
	Arg  string
}

// ParseCommand classifies a chat message. ASCII keywords match
// case-insensitively; the Chinese command words match exactly. Anything
// unrecognized is treated as order text.
func ParseCommand(text string) Command {
	t := strings.TrimSpace(text)
	lower := strings.ToLower(t)

	switch {
	case lower == "menu" || t == "菜單":
		return Command{Kind: CmdMenu}
	case lower == "help" || t == "幫助":
		return Command{Kind: CmdHelp}
	case lower == "status" || t == "查詢":
		return Command{Kind: CmdStatus}
	}

	if lower == "bind" || strings.HasPrefix(lower, "bind ") {
		return Command{Kind: CmdBind, Arg: strings.TrimSpace(t[len("bind"):])}
	}
	if strings.HasPrefix(t, "綁定") {
		return Command{Kind: CmdBind, Arg: strings.TrimSpace(t[len("綁定"):])}
	}

	return Command{Kind: CmdOrder, Arg: t}
}
