package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"calleroo/config"
	"calleroo/services/call"
)

// TelephonyHandler answers the voice provider's webhooks. Directives from
// the orchestrator are rendered into the provider's XML; every branch
// returns a document, never an empty body.
type TelephonyHandler struct {
	Calls call.Service
}

func NewTelephonyHandler(calls call.Service) *TelephonyHandler {
	return &TelephonyHandler{Calls: calls}
}

// Voice answers the initial webhook when the callee picks up.
func (h *TelephonyHandler) Voice(c *gin.Context) {
	conversationID := c.Query("conversationId")
	directives := h.Calls.Orchestrator().VoiceTurn(conversationID)
	respondTwiML(c, directives)
}

// Gather receives one turn of recognized speech.
func (h *TelephonyHandler) Gather(c *gin.Context) {
	conversationID := c.Query("conversationId")
	turn := intQuery(c, "turn")
	retry := intQuery(c, "retry")
	speech := c.PostForm("SpeechResult")

	directives := h.Calls.Orchestrator().GatherTurn(conversationID, turn, retry, speech)
	respondTwiML(c, directives)
}

// Poll checks whether the background reply is ready.
func (h *TelephonyHandler) Poll(c *gin.Context) {
	conversationID := c.Query("conversationId")
	turn := intQuery(c, "turn")
	attempt := intQuery(c, "attempt")

	directives := h.Calls.Orchestrator().PollTurn(conversationID, turn, attempt)
	respondTwiML(c, directives)
}

// Status receives call lifecycle callbacks from the provider.
func (h *TelephonyHandler) Status(c *gin.Context) {
	callID := c.PostForm("CallSid")
	status := c.PostForm("CallStatus")
	duration, _ := strconv.Atoi(c.PostForm("CallDuration"))

	if callID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing CallSid"})
		return
	}
	h.Calls.HandleStatusUpdate(c.Request.Context(), callID, status, duration)
	c.Status(http.StatusNoContent)
}

// Recording receives the recording-ready callback.
func (h *TelephonyHandler) Recording(c *gin.Context) {
	callID := c.PostForm("CallSid")
	recordingURL := c.PostForm("RecordingUrl")

	if callID == "" || recordingURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing CallSid or RecordingUrl"})
		return
	}
	h.Calls.HandleRecording(c.Request.Context(), callID, recordingURL)
	c.Status(http.StatusNoContent)
}

func intQuery(c *gin.Context, name string) int {
	v, _ := strconv.Atoi(c.Query(name))
	return v
}

func respondTwiML(c *gin.Context, directives []call.Directive) {
	c.Data(http.StatusOK, "application/xml", []byte(RenderTwiML(directives)))
}

// RenderTwiML turns orchestrator directives into the provider's response
// markup. A Gather is followed by a redirect to its own action URL so a
// listen timeout still reaches the webhook as an empty turn.
func RenderTwiML(directives []call.Directive) string {
	voice := config.AppConfig.DefaultVoiceName
	if voice == "" {
		voice = "Polly.Matthew"
	}

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<Response>\n")
	for _, d := range directives {
		switch v := d.(type) {
		case call.Speak:
			fmt.Fprintf(&b, "    <Say voice=%q language=\"en-AU\">%s</Say>\n", voice, escapeXML(v.Text))
		case call.Listen:
			fmt.Fprintf(&b, "    <Gather input=\"speech\" action=%q method=\"POST\" speechTimeout=\"auto\" timeout=\"%d\">\n",
				escapeXML(v.ActionURL), v.TimeoutSeconds)
			if v.Say != "" {
				fmt.Fprintf(&b, "        <Say voice=%q language=\"en-AU\">%s</Say>\n", voice, escapeXML(v.Say))
			}
			b.WriteString("    </Gather>\n")
			fmt.Fprintf(&b, "    <Redirect method=\"POST\">%s</Redirect>\n", escapeXML(v.ActionURL))
		case call.Pause:
			fmt.Fprintf(&b, "    <Pause length=\"%d\"/>\n", v.Seconds)
		case call.Redirect:
			fmt.Fprintf(&b, "    <Redirect method=\"POST\">%s</Redirect>\n", escapeXML(v.URL))
		case call.Hangup:
			if v.Say != "" {
				fmt.Fprintf(&b, "    <Say voice=%q language=\"en-AU\">%s</Say>\n", voice, escapeXML(v.Say))
			}
			b.WriteString("    <Hangup/>\n")
		}
	}
	b.WriteString("</Response>")
	return b.String()
}

func escapeXML(text string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(text)
}
