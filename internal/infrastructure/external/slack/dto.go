package slack

// Request and response DTOs for the subset of the Slack Web API the bot
// uses. Only the fields the bot reads are mapped.

// apiResponse is the envelope every Web API response shares.
type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// postMessageRequest is the chat.postMessage request body.
type postMessageRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// postMessageResponse is the chat.postMessage response body.
type postMessageResponse struct {
	apiResponse
	Channel string `json:"channel,omitempty"`
	TS      string `json:"ts,omitempty"`
}

// authTestResponse is the auth.test response body.
type authTestResponse struct {
	apiResponse
	UserID string `json:"user_id,omitempty"`
	BotID  string `json:"bot_id,omitempty"`
	Team   string `json:"team,omitempty"`
}

// userProfile holds the profile fields of users.info.
type userProfile struct {
	DisplayName string `json:"display_name,omitempty"`
	RealName    string `json:"real_name,omitempty"`
}

// userInfo holds the user object of users.info.
type userInfo struct {
	ID       string      `json:"id"`
	Name     string      `json:"name,omitempty"`
	RealName string      `json:"real_name,omitempty"`
	Profile  userProfile `json:"profile"`
}

// userInfoResponse is the users.info response body.
type userInfoResponse struct {
	apiResponse
	User userInfo `json:"user"`
}

// threadMessage is one message of conversations.replies.
type threadMessage struct {
	User string `json:"user,omitempty"`
	TS   string `json:"ts,omitempty"`
	Text string `json:"text,omitempty"`
}

// repliesResponse is the conversations.replies response body.
type repliesResponse struct {
	apiResponse
	Messages []threadMessage `json:"messages,omitempty"`
}
