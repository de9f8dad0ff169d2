package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	defaultScoringURL = "http://localhost:8080"
)

type BotConfig struct {
	Token          string
	ScoringURL     string
	UpdateTimeout  int
	AllowedUserIDs []int64 // Optional: restrict access to specific users
}

func main() {
	var token string
	var scoringURL string
	var allowedUsers string

	flag.StringVar(&token, "token", "", "Telegram bot token (required, or set TELEGRAM_BOT_TOKEN env var)")
	flag.StringVar(&scoringURL, "scoring-url", defaultScoringURL, "Scoring service URL")
	flag.StringVar(&allowedUsers, "allowed-users", "", "Comma-separated list of allowed user IDs (optional)")
	flag.Parse()

	if token == "" {
		token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if token == "" {
		log.Fatal("Telegram bot token is required. Set -token flag or TELEGRAM_BOT_TOKEN env var")
	}

	if scoringURL == defaultScoringURL {
		if envURL := os.Getenv("SCORING_URL"); envURL != "" {
			scoringURL = envURL
		}
	}

	config := BotConfig{
		Token:         token,
		ScoringURL:    scoringURL,
		UpdateTimeout: 60,
	}

	if allowedUsers != "" {
		userIDs := strings.Split(allowedUsers, ",")
		for _, idStr := range userIDs {
			id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
			if err == nil {
				config.AllowedUserIDs = append(config.AllowedUserIDs, id)
			}
		}
	}

	log.Printf("Starting Telegram bot...")
	log.Printf("Scoring service URL: %s", config.ScoringURL)

	bot, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	bot.Debug = false
	log.Printf("Authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = config.UpdateTimeout

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, stopping bot...")
		cancel()
	}()

	updates := bot.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-ctx.Done():
				bot.StopReceivingUpdates()
				return
			case update := <-updates:
				if update.Message == nil {
					continue
				}

				if len(config.AllowedUserIDs) > 0 {
					allowed := false
					for _, id := range config.AllowedUserIDs {
						if update.Message.From.ID == id {
							allowed = true
							break
						}
					}
					if !allowed {
						msg := tgbotapi.NewMessage(update.Message.Chat.ID, "Access denied. You are not authorized to use this bot.")
						bot.Send(msg)
						continue
					}
				}

				handleMessage(bot, update.Message, config)
			}
		}
	}()

	<-ctx.Done()
	log.Println("Telegram bot stopped")
}

func handleMessage(bot *tgbotapi.BotAPI, message *tgbotapi.Message, config BotConfig) {
	text := strings.TrimSpace(message.Text)
	if text == "" {
		return
	}

	parts := strings.Fields(text)
	command := strings.ToLower(parts[0])

	switch command {
	case "/start", "/help":
		sendHelpMessage(bot, message.Chat.ID)
	case "/matches":
		fetchAndSendMatches(bot, message.Chat.ID, config)
	case "/score":
		if len(parts) < 2 {
			sendText(bot, message.Chat.ID, "Usage: /score <match_id>")
			return
		}
		fetchAndSendScore(bot, message.Chat.ID, config, strings.Join(parts[1:], " "))
	case "/scorecard":
		if len(parts) < 2 {
			sendText(bot, message.Chat.ID, "Usage: /scorecard <match_id>")
			return
		}
		fetchAndSendScorecard(bot, message.Chat.ID, config, strings.Join(parts[1:], " "))
	default:
		sendText(bot, message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func sendHelpMessage(bot *tgbotapi.BotAPI, chatID int64) {
	helpText := `🏏 *Live Cricket Score Bot*

Commands:
/matches - list stored matches
/score <match_id> - live score of the current innings
/scorecard <match_id> - full batting and bowling cards
/help - this message`

	msg := tgbotapi.NewMessage(chatID, helpText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
}

func sendText(bot *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := bot.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func fetchJSON(config BotConfig, path string, query url.Values, dest interface{}) error {
	client := &http.Client{Timeout: 10 * time.Second}

	reqURL := config.ScoringURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	resp, err := client.Get(reqURL)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scoring service returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

type matchListItem struct {
	ID         string `json:"id"`
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	Status     string `json:"status"`
}

func fetchAndSendMatches(bot *tgbotapi.BotAPI, chatID int64, config BotConfig) {
	var payload struct {
		Matches []matchListItem `json:"matches"`
	}
	if err := fetchJSON(config, "/matches", nil, &payload); err != nil {
		sendText(bot, chatID, fmt.Sprintf("Failed to fetch matches: %v", err))
		return
	}
	if len(payload.Matches) == 0 {
		sendText(bot, chatID, "No matches stored yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 Matches:\n\n")
	for _, m := range payload.Matches {
		fmt.Fprintf(&sb, "%s vs %s (%s)\n`%s`\n\n", m.HomeTeamID, m.AwayTeamID, m.Status, m.ID)
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
}

type liveScore struct {
	MatchID       string `json:"match_id"`
	Status        string `json:"status"`
	BattingTeamID string `json:"batting_team_id"`
	Overs         string `json:"overs"`
	StrikerID     string `json:"striker_id"`
	NonStrikerID  string `json:"non_striker_id"`
	InningsOver   bool   `json:"innings_over"`
	Summary       struct {
		Runs    int     `json:"runs"`
		Wickets int     `json:"wickets"`
		RunRate float64 `json:"run_rate"`
	} `json:"summary"`
	Result *struct {
		Message string `json:"message"`
	} `json:"result"`
}

func fetchAndSendScore(bot *tgbotapi.BotAPI, chatID int64, config BotConfig, matchID string) {
	var live liveScore
	query := url.Values{"match_id": {matchID}}
	if err := fetchJSON(config, "/score", query, &live); err != nil {
		sendText(bot, chatID, fmt.Sprintf("Failed to fetch score: %v", err))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏏 %s: %d/%d after %s overs (RR %.2f)\n",
		live.BattingTeamID, live.Summary.Runs, live.Summary.Wickets, live.Overs, live.Summary.RunRate)
	if live.StrikerID != "" {
		fmt.Fprintf(&sb, "On strike: %s (with %s)\n", live.StrikerID, live.NonStrikerID)
	}
	if live.Result != nil {
		fmt.Fprintf(&sb, "\n%s", live.Result.Message)
	}

	sendText(bot, chatID, sb.String())
}

type scorecard struct {
	Status  string `json:"status"`
	Innings []struct {
		BattingTeamID string `json:"batting_team_id"`
		SuperOver     bool   `json:"super_over"`
		Summary       struct {
			Runs       int `json:"runs"`
			Wickets    int `json:"wickets"`
			Overs      int `json:"overs"`
			BallsThisOver int `json:"balls_this_over"`
		} `json:"summary"`
		Batting []struct {
			PlayerID   string  `json:"player_id"`
			Runs       int     `json:"runs"`
			Balls      int     `json:"balls"`
			Out        bool    `json:"out"`
			StrikeRate float64 `json:"strike_rate"`
		} `json:"batting"`
		Bowling []struct {
			PlayerID string  `json:"player_id"`
			Runs     int     `json:"runs"`
			Wickets  int     `json:"wickets"`
			Economy  float64 `json:"economy"`
		} `json:"bowling"`
	} `json:"innings"`
	Result *struct {
		Message string `json:"message"`
	} `json:"result"`
}

func fetchAndSendScorecard(bot *tgbotapi.BotAPI, chatID int64, config BotConfig, matchID string) {
	var card scorecard
	query := url.Values{"match_id": {matchID}}
	if err := fetchJSON(config, "/scorecard", query, &card); err != nil {
		sendText(bot, chatID, fmt.Sprintf("Failed to fetch scorecard: %v", err))
		return
	}

	var sb strings.Builder
	for i, in := range card.Innings {
		label := fmt.Sprintf("Innings %d", i+1)
		if in.SuperOver {
			label = "Super Over"
		}
		fmt.Fprintf(&sb, "*%s - %s: %d/%d (%d.%d ov)*\n",
			label, in.BattingTeamID, in.Summary.Runs, in.Summary.Wickets, in.Summary.Overs, in.Summary.BallsThisOver)

		for _, b := range in.Batting {
			if b.Balls == 0 && !b.Out {
				continue
			}
			marker := "*"
			if b.Out {
				marker = ""
			}
			fmt.Fprintf(&sb, "  %s %d%s (%d)\n", b.PlayerID, b.Runs, marker, b.Balls)
		}
		sb.WriteString("  -\n")
		for _, bw := range in.Bowling {
			if bw.Runs == 0 && bw.Wickets == 0 {
				continue
			}
			fmt.Fprintf(&sb, "  %s %d/%d (econ %.2f)\n", bw.PlayerID, bw.Wickets, bw.Runs, bw.Economy)
		}
		sb.WriteString("\n")
	}
	if card.Result != nil {
		sb.WriteString(card.Result.Message)
	}
	if sb.Len() == 0 {
		sb.WriteString("No innings recorded yet.")
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
}
