package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// Response is what every command prints in JSON mode.
type Response struct {
	Status string         `json:"status"`
	Data   interface{}    `json:"data,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

// ResponseError is the error part of a failed Response.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OutputFormatter prints command results, as JSON or as plain text.
type OutputFormatter struct {
	Format string
	Out    io.Writer
}

func (f *OutputFormatter) isJSON() bool { return f.Format == "json" }

// Success prints data. Text output uses the String method of data, if
// there is one.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.isJSON() {
		return json.NewEncoder(f.Out).Encode(Response{Status: "ok", Data: data})
	}
	_, err := fmt.Fprint(f.Out, data)
	return err
}

// Error prints an error with its code.
func (f *OutputFormatter) Error(code, message string) error {
	if f.isJSON() {
		return json.NewEncoder(f.Out).Encode(Response{Status: "error", Error: &ResponseError{Code: code, Message: message}})
	}
	_, err := fmt.Fprintf(f.Out, "Error [%s]: %s\n", code, message)
	return err
}
