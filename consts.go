package mlogger

const emptyString = ""

// Function names passed to the ErrorCallback.
const (
	FuncInitialize     = "initialize"
	FuncLog            = "log"
	FuncLogException   = "logException"
	FuncFlush          = "flush"
	FuncGetLogLevel    = "getLogLevel"
	FuncSetLogLevel    = "setLogLevel"
	FuncTerminateFlush = "terminate::flush"
	FuncTerminateDrop  = "terminate::drop"
)

const (
	errMsgConfigInvalid  = "Logging configuration is invalid."
	errMsgSinkOpen       = "Could not open the log sink."
	errMsgManagerClosed  = "Manager is closed."
	errMsgInvalidSinkLvl = "Sink reported an out-of-range level."
)

const (
	exceptionPrefix    = "[EXCEPTION] "
	exceptionTypeSep   = ": "
	exceptionStackSep  = '\n'
	defaultThreadCount = 1
	functionFieldName  = "function"
	componentName      = "mlogger"
)
