package utils

import (
	"os"
)

func GetEnv(env string) string {
	switch env {
	case "USER_AGENT":
		// Some mirrors only answer to player user agents.
		userAgent, userAgentExists := os.LookupEnv("USER_AGENT")
		if !userAgentExists {
			userAgent = "IPTV Smarters/1.0.3 (iPad; iOS 16.6.1; Scale/2.00)"
		}
		return userAgent
	default:
		return ""
	}
}
