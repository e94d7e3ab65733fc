package alert

// Command is a single byte understood by the buzzer firmware.
type Command byte

const (
	// CommandOff silences the buzzer.
	CommandOff Command = '0'
	// CommandOn sounds the buzzer.
	CommandOn Command = '1'
)

// CommandFor maps the desired buzzer state to a command.
func CommandFor(active bool) Command {
	if active {
		return CommandOn
	}

	return CommandOff
}

// ParseCommand converts "on"/"off" (or "1"/"0") to a Command.
func ParseCommand(s string) (Command, bool) {
	switch s {
	case "on", "ON", "1":
		return CommandOn, true
	case "off", "OFF", "0":
		return CommandOff, true
	default:
		return 0, false
	}
}

// Byte returns the wire representation of the command.
func (c Command) Byte() byte {
	return byte(c)
}

// String returns ON or OFF.
func (c Command) String() string {
	switch c {
	case CommandOn:
		return "ON"
	case CommandOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}
