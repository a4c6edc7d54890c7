package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/redact/redact-backend/internal/common"
	"github.com/redact/redact-backend/internal/middleware"
	"github.com/redact/redact-backend/internal/service"
)

// maxPageSize is the largest page the Discord API serves per request
const maxPageSize = 100

// DiscordHandler proxies server, channel, and message reads plus the
// single-message delete
type DiscordHandler struct {
	service *service.DiscordService
}

// NewDiscordHandler creates a new DiscordHandler
func NewDiscordHandler(service *service.DiscordService) *DiscordHandler {
	return &DiscordHandler{service: service}
}

// GetServers handles GET /discord/servers
// @Summary List the user's servers
// @Tags discord
// @Produce json
// @Router /discord/servers [get]
func (h *DiscordHandler) GetServers(c *gin.Context) {
	guilds, err := h.service.Guilds(c.Request.Context(), middleware.GetDiscordToken(c), middleware.GetUserID(c))
	if err != nil {
		upstreamOrInternal(c, "Failed to fetch servers", err)
		return
	}

	c.JSON(http.StatusOK, guilds)
}

// GetChannels handles GET /discord/servers/:server_id/channels
// @Summary List the channels of a server
// @Tags discord
// @Produce json
// @Param server_id path string true "server ID"
// @Router /discord/servers/{server_id}/channels [get]
func (h *DiscordHandler) GetChannels(c *gin.Context) {
	serverID := c.Param("server_id")

	channels, err := h.service.GuildChannels(c.Request.Context(), middleware.GetDiscordToken(c), middleware.GetUserID(c), serverID)
	if err != nil {
		upstreamOrInternal(c, "Failed to fetch channels", err)
		return
	}

	c.JSON(http.StatusOK, channels)
}

// GetDMs handles GET /discord/dms
// @Summary List the user's direct message channels
// @Tags discord
// @Produce json
// @Router /discord/dms [get]
func (h *DiscordHandler) GetDMs(c *gin.Context) {
	dms, err := h.service.DMChannels(c.Request.Context(), middleware.GetDiscordToken(c), middleware.GetUserID(c))
	if err != nil {
		upstreamOrInternal(c, "Failed to fetch DMs", err)
		return
	}

	c.JSON(http.StatusOK, dms)
}

// GetMessages handles GET /discord/channels/:channel_id/messages
// @Summary Fetch one page of channel messages, newest first
// @Tags discord
// @Produce json
// @Param channel_id path string true "channel ID"
// @Param limit query int false "page size (max 100)"
// @Param before query string false "page backward from this message ID"
// @Router /discord/channels/{channel_id}/messages [get]
func (h *DiscordHandler) GetMessages(c *gin.Context) {
	channelID := c.Param("channel_id")

	limit := maxPageSize
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= maxPageSize {
		limit = l
	}
	before := c.Query("before")

	messages, err := h.service.Messages(c.Request.Context(), middleware.GetDiscordToken(c), middleware.GetUserID(c), channelID, limit, before)
	if err != nil {
		upstreamOrInternal(c, "Failed to fetch messages", err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// DeleteMessage handles DELETE /discord/channels/:channel_id/messages/:message_id
// @Summary Delete a single message
// @Tags discord
// @Produce json
// @Param channel_id path string true "channel ID"
// @Param message_id path string true "message ID"
// @Router /discord/channels/{channel_id}/messages/{message_id} [delete]
func (h *DiscordHandler) DeleteMessage(c *gin.Context) {
	channelID := c.Param("channel_id")
	messageID := c.Param("message_id")

	err := h.service.DeleteMessage(c.Request.Context(), middleware.GetDiscordToken(c), middleware.GetUserID(c), channelID, messageID)
	if err != nil {
		upstreamOrInternal(c, "Failed to delete message", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// upstreamOrInternal maps Discord API failures to 502 and everything else to 500
func upstreamOrInternal(c *gin.Context, message string, err error) {
	if common.IsUpstreamError(err) {
		common.ErrorResponse(c, http.StatusBadGateway, message, err)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, message, err)
}
