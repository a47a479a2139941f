package mlogger

import "github.com/valyala/bytebufferpool"

// formatException composes the text of an exception record:
//
//	[EXCEPTION] <type>: <message>
//	<stack trace>
//
// Empty parts are left out along with their separators.
func formatException(typ, message, stackTrace string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(exceptionPrefix)
	if typ != emptyString {
		_, _ = buf.WriteString(typ)
		_, _ = buf.WriteString(exceptionTypeSep)
	}
	_, _ = buf.WriteString(message)
	if stackTrace != emptyString {
		_ = buf.WriteByte(exceptionStackSep)
		_, _ = buf.WriteString(stackTrace)
	}
	return buf.String()
}
