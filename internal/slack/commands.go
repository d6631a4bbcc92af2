package slack

import (
	"fmt"
	"strings"
)

type CommandType string

const (
	CmdHeute            CommandType = "heute"
	CmdMorgen           CommandType = "morgen"
	CmdUebermorgen      CommandType = "übermorgen"
	CmdUeberuebermorgen CommandType = "überübermorgen"
	CmdHelp             CommandType = "help"
)

type Command struct {
	Type CommandType
	// DayOffset is the number of days after today the command refers
	// to; meaningful for the day listing commands only.
	DayOffset int
	Raw       string
}

func ParseCommand(text string) (*Command, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return &Command{Type: CmdHelp, Raw: text}, nil
	}

	cmd := &Command{
		Raw: text,
	}

	switch strings.ToLower(parts[0]) {
	case "heute":
		cmd.Type = CmdHeute
		cmd.DayOffset = 0
	case "morgen":
		cmd.Type = CmdMorgen
		cmd.DayOffset = 1
	case "übermorgen", "uebermorgen":
		cmd.Type = CmdUebermorgen
		cmd.DayOffset = 2
	case "überübermorgen", "ueberuebermorgen":
		cmd.Type = CmdUeberuebermorgen
		cmd.DayOffset = 3
	case "help", "hilfe":
		cmd.Type = CmdHelp
	default:
		return nil, fmt.Errorf("unbekannter Befehl: %s", parts[0])
	}

	return cmd, nil
}

func GetHelpText() string {
	return `*Verfügbare Befehle:*

• ` + "`/plan heute`" + ` - Dein Plan für heute
• ` + "`/plan morgen`" + ` - Dein Plan für morgen
• ` + "`/plan übermorgen`" + ` - Dein Plan für übermorgen
• ` + "`/plan überübermorgen`" + ` - Dein Plan für überübermorgen

Änderungen (Ausfall, Raumänderung, neuer Plan) werden automatisch in den Kanal gepostet.`
}
