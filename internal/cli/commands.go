package cli

// Command describes one line command
type Command struct {
	Name        string
	Usage       string
	Description string
	// Betting commands need an active session
	Betting bool
}

// Commands defines every command the runner understands, in help order
var Commands = []Command{
	{Name: "start", Usage: "start <capital> <base>", Description: "Start a session (archives the current one if it has results)"},
	{Name: "win", Usage: "win <amount> [code] [x]", Description: "Settle a won bet; x applies the pending multiplier", Betting: true},
	{Name: "lose", Usage: "lose <amount> [code]", Description: "Settle a lost bet", Betting: true},
	{Name: "chance", Usage: "chance [value]", Description: "Arm a chance multiplier (default 2, stacks additively)", Betting: true},
	{Name: "cash", Usage: "cash <amount>", Description: "Credit a chance cash prize", Betting: true},
	{Name: "combo", Usage: "combo <cash> <multwin>", Description: "Credit chance cash and multiplier winnings together", Betting: true},
	{Name: "undo", Usage: "undo", Description: "Undo the last result"},
	{Name: "checkpoint", Usage: "checkpoint", Description: "Archive the session and keep playing"},
	{Name: "clear", Usage: "clear", Description: "Archive and close the session"},
	{Name: "reset", Usage: "reset", Description: "Drop the session and all history"},
	{Name: "status", Usage: "status", Description: "Show the session"},
	{Name: "log", Usage: "log", Description: "Show the result log"},
	{Name: "history", Usage: "history", Description: "Show archived sessions"},
	{Name: "archive", Usage: "archive [limit]", Description: "List archived sessions from the durable archive, newest first"},
	{Name: "stats", Usage: "stats", Description: "Show statistics over archived sessions"},
	{Name: "help", Usage: "help", Description: "Show this help"},
	{Name: "quit", Usage: "quit", Description: "Exit"},
}

func lookup(name string) (Command, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}
