package httputil

import "errors"

var (
	ErrInvalidBody        = errors.New("the body of your request contains invalid or un-parseable data. Please check and try again")
	ErrRequestBodyEmpty   = errors.New("the request body must not be empty")
	ErrInvalidUUID        = errors.New("the specified resource ID is not a valid UUID")
	ErrInvalidQueryString = errors.New("the query string contains unparseable data. Please check the values")
	ErrInvalidMonth       = errors.New("the month must be specified as YYYY-MM")
	ErrFileMissing        = errors.New("the request must contain a file in the multipart field 'file'")
	ErrMethodNotAllowed   = errors.New("this HTTP method is not allowed for the endpoint you called")
)
