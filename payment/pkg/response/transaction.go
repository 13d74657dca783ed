package response

// Transaction is the gateway's handle for a pending payment. RedirectUrl is
// where the customer completes the payment; Token lets the frontend embed the
// payment page instead.
type Transaction struct {
	Token       string   `json:"token"`
	RedirectUrl string   `json:"redirect_url"`
	Errors      []string `json:"error_messages,omitempty"`
}
