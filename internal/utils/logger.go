package utils

import (
	"log"
	"strings"
)

// LogEvent prints a standardized log line with module/action/request_id.
// Keep messages summarized; never log passenger document numbers or card data.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		req = "-"
	}
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}
