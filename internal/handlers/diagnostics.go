package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"dogwalk-tracker/internal/controller"
	"dogwalk-tracker/pkg/utils"
)

// ClientLog is a diagnostic line sent by the map page (geolocation, wake lock, drawing)
type ClientLog struct {
	Timestamp string                 `json:"timestamp"`
	Context   string                 `json:"context"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data"`
	UserAgent string                 `json:"user_agent"`
}

// StatsSource is anything exposing counters for diagnostics
type StatsSource interface {
	GetStats() map[string]interface{}
}

// Health handles GET /health
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}
}

// Diagnostics handles GET /api/diagnostics
func Diagnostics(ctrl *controller.Controller, sources map[string]StatsSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := map[string]interface{}{
			"controller": ctrl.Diagnostics(),
		}
		for name, src := range sources {
			if src != nil {
				out[name] = src.GetStats()
			}
		}
		utils.RespondSuccess(w, out)
	}
}

// ReceiveClientLog handles POST /api/logs/client
func ReceiveClientLog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var entry ClientLog
		if err := utils.DecodeJSON(r, &entry); err != nil {
			respondErr(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}

		prefix := "🌐"
		switch entry.Level {
		case "ERROR":
			prefix = "🔴"
		case "WARNING":
			prefix = "🟡"
		case "INFO":
			prefix = "🔵"
		}

		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Printf("%s PAGE DIAGNOSTIC [%s]", prefix, entry.Level)
		if entry.UserAgent == "" {
			entry.UserAgent = r.UserAgent()
		}
		log.Printf("   Agent:     %s", entry.UserAgent)
		log.Printf("   Context:   %s", entry.Context)
		log.Printf("   Timestamp: %s", entry.Timestamp)
		log.Printf("   Message:   %s", entry.Message)

		if len(entry.Data) > 0 {
			log.Println("   Data:")
			dataJSON, err := json.MarshalIndent(entry.Data, "      ", "  ")
			if err == nil {
				log.Printf("      %s", string(dataJSON))
			}
		}
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

		utils.RespondSuccess(w, map[string]string{
			"status": "received",
		})
	}
}
