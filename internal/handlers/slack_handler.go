package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/slack-go/slack"

	"github.com/planbot-dev/vertretungsplan-bot/internal/domain/contract"
	slackcmd "github.com/planbot-dev/vertretungsplan-bot/internal/slack"
)

type SlackHandler struct {
	planService   contract.PlanLister
	signingSecret string
	logger        *slog.Logger
}

func New(planService contract.PlanLister, signingSecret string, logger *slog.Logger) *SlackHandler {
	return &SlackHandler{
		planService:   planService,
		signingSecret: signingSecret,
		logger:        logger,
	}
}

func (h *SlackHandler) HandleSlashCommand(w http.ResponseWriter, r *http.Request) {
	// Verify request from Slack
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	// Verify Slack signature
	verifier, err := slack.NewSecretsVerifier(r.Header, h.signingSecret)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if _, err := verifier.Write(body); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := verifier.Ensure(); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// Parse command
	s, err := slack.SlashCommandParse(r)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Parse our command
	cmd, err := slackcmd.ParseCommand(s.Text)
	if err != nil {
		h.respondWithError(w, err.Error())
		return
	}

	// Handle command
	response := h.handleCommand(r, cmd)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *SlackHandler) handleCommand(r *http.Request, cmd *slackcmd.Command) *slack.Msg {
	switch cmd.Type {
	case slackcmd.CmdHeute, slackcmd.CmdMorgen, slackcmd.CmdUebermorgen, slackcmd.CmdUeberuebermorgen:
		return h.handleDayListing(r, cmd)
	case slackcmd.CmdHelp:
		return h.handleHelp()
	default:
		return h.createErrorResponse("Unbekannter Befehl")
	}
}

func (h *SlackHandler) handleDayListing(r *http.Request, cmd *slackcmd.Command) *slack.Msg {
	listing, err := h.planService.DayListing(r.Context(), cmd.DayOffset)
	if err != nil {
		h.logger.Error("day listing failed", "command", cmd.Type, "error", err)
		return h.createErrorResponse("Der Vertretungsplan ist gerade nicht verfügbar.")
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         listing,
	}
}

func (h *SlackHandler) handleHelp() *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         slackcmd.GetHelpText(),
	}
}

func (h *SlackHandler) createErrorResponse(message string) *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         "❌ " + message,
	}
}

func (h *SlackHandler) respondWithError(w http.ResponseWriter, message string) {
	response := h.createErrorResponse(message)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
