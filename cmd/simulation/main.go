package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api/chat/v1"

// Token for a test account; override with SIM_ACCESS_TOKEN.
var accessToken = os.Getenv("SIM_ACCESS_TOKEN")

type sendChatRequest struct {
	ConversationId *string `json:"conversation_id,omitempty"`
	Message        string  `json:"message"`
}

type sendChatResponse struct {
	Data struct {
		ConversationId string `json:"conversation_id"`
		Message        string `json:"message"`
		Mode           string `json:"mode"`
		Metadata       *struct {
			DocumentComplete bool `json:"document_complete"`
		} `json:"metadata"`
	} `json:"data"`
}

// The full guided flow: company info, one position with one hazard,
// confirmation. Serbian answers as a real user would type them.
var script = []string{
	"Treba mi akt o proceni rizika",
	"Gvožđar DOO",
	"100000008",
	"Bulevar oslobođenja 12",
	"Novi Sad",
	"Petar Petrović",
	"0101990177512",
	"Mila Milić",
	"0101850712345",
	"2511",
	"Proizvodnja metalnih konstrukcija",
	"18",
	"bravar",
	"4",
	"sečenje i varenje metalnih profila u radionici",
	"rad sa brusilicom",
	"3",
	"5",
	"6",
	"zaštitne naočare, obuka za rad, redovno održavanje alata",
	"36",
	"ne",
	"ne",
	"da",
}

func main() {
	color.Cyan("=== Document Assembly Simulation ===")
	if accessToken == "" {
		color.Red("SIM_ACCESS_TOKEN is not set")
		os.Exit(1)
	}

	var conversationId *string
	for i, text := range script {
		color.Yellow("\nUSER [%02d]: %s", i+1, text)

		start := time.Now()
		resp, err := sendChat(conversationId, text)
		elapsed := time.Since(start)

		if err != nil {
			color.Red("Error: %v", err)
			os.Exit(1)
		}

		conversationId = &resp.Data.ConversationId
		color.Green("BOT (%v, mode=%s): %s", elapsed.Round(time.Millisecond), resp.Data.Mode, resp.Data.Message)

		if resp.Data.Metadata != nil && resp.Data.Metadata.DocumentComplete {
			color.Cyan("\n✅ Document completed after %d turns", i+1)
			return
		}
	}

	color.Red("\nScript exhausted without completing the document")
	os.Exit(1)
}

func sendChat(conversationId *string, message string) (*sendChatResponse, error) {
	payload, _ := json.Marshal(sendChatRequest{
		ConversationId: conversationId,
		Message:        message,
	})

	req, err := http.NewRequest("POST", baseURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("status %s: %s", resp.Status, string(body))
	}

	var out sendChatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
