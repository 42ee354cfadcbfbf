// Package command maps chat commands onto the watchlist, the price source and the formatter
package command

import "strings"

// Command is one of the chat commands understood by the bot
type Command int

const (
	CommandAdd Command = iota + 1
	CommandRemove
	CommandCheck
	CommandPrice
)

// Commands lists every command in registration order
var Commands = []Command{CommandAdd, CommandRemove, CommandCheck, CommandPrice}

// ParseCommand resolves a command name. A leading slash and a @botname suffix are ignored.
func ParseCommand(name string) (Command, bool) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	name, _, _ = strings.Cut(name, "@")

	for _, cmd := range Commands {
		if strings.EqualFold(name, cmd.String()) {
			return cmd, true
		}
	}

	return 0, false
}

func (c Command) String() string {
	switch c {
	case CommandAdd:
		return "add"
	case CommandRemove:
		return "remove"
	case CommandCheck:
		return "check"
	case CommandPrice:
		return "price"
	default:
		return "unknown"
	}
}

// Description is the help text registered with the chat platform
func (c Command) Description() string {
	switch c {
	case CommandAdd:
		return "📈 Track a coin, eg: /add bitcoin"
	case CommandRemove:
		return "📉 Stop tracking a coin"
	case CommandCheck:
		return "📋 List tracked coins"
	case CommandPrice:
		return "💰 Price of a coin, or of every tracked coin when empty"
	default:
		return ""
	}
}

// Usage is the syntax shown when a required argument is missing
func (c Command) Usage() string {
	switch c {
	case CommandAdd, CommandRemove:
		return "Usage: /" + c.String() + " <coin>"
	case CommandPrice:
		return "Usage: /price or /price <coin>"
	default:
		return "Usage: /" + c.String()
	}
}
