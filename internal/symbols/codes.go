package symbols

// errorCodes maps symbol-extraction tool exit codes to their descriptions
var errorCodes = map[int]string{
	0: "Success",
	1: "General failure",
	2: "Cannot open binary file",
	3: "Binary has no debug sections",
	4: "Cannot write symbol archive",
	5: "Unsupported architecture",
	6: "Archive completed with warnings",
}

// IsSuccess returns true if the exit code indicates successful extraction
func IsSuccess(code int) bool {
	return code == 0 || code == 6
}

// ErrorMessage returns the message for a given exit code, or a generic message if unknown
func ErrorMessage(code int) string {
	if msg, ok := errorCodes[code]; ok {
		return msg
	}

	return "Unknown error"
}
