package constants

const (
	Name        = "ExecGate"
	Author      = "IllumiKnow Labs"
	Description = "SigV4-signed client for execute-api endpoints"

	Empty = "**EMPTY**"
)
