package domain

import "time"

// Tokens is the Discord OAuth token exchange response
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// User is the Discord user profile (/users/@me)
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
	Email         string `json:"email,omitempty"`
}

// Guild is a server summary (/users/@me/guilds)
type Guild struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Owner bool   `json:"owner"`
}

// Channel is a channel summary, either a guild channel or a DM
type Channel struct {
	ID         string `json:"id"`
	Type       int    `json:"type"`
	Name       string `json:"name,omitempty"`
	GuildID    string `json:"guild_id,omitempty"`
	Recipients []User `json:"recipients,omitempty"`
}

// Attachment is an opaque file reference on a message
type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Message is a single channel message as returned by the Discord API.
// Immutable once fetched; identity is ID.
type Message struct {
	ID          string       `json:"id"`
	ChannelID   string       `json:"channel_id"`
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	Author      User         `json:"author"`
	Attachments []Attachment `json:"attachments"`
}
