// Package export renders the roster as the flat device payload and drives
// the render, save and transfer steps of an export.
//
// The payload has one line per device:
//
//	name,user,host,ip,password,port[,number,name,audio,time]...
//
// Values are written verbatim with no quoting; Lint reports values that
// would break the line structure.
package export
