package errors

import stdErrors "errors"

// DumpInfo is a flattened view of an error chain used for server-side logs.
type DumpInfo struct {
	TopMessage string
	Code       string
	Chain      []string
}

// Dump walks the error chain and collects every message for logging.
func Dump(err error) DumpInfo {
	info := DumpInfo{}
	if err == nil {
		return info
	}

	info.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		info.Code = string(typed.Code())
	}

	for current := err; current != nil; current = stdErrors.Unwrap(current) {
		info.Chain = append(info.Chain, current.Error())
	}
	return info
}
