package model

type PaypalLink struct {
	Rel    string `json:"rel"`
	Href   string `json:"href"`
	Method string `json:"method,omitempty"`
}

type Amount struct {
	Currency string `json:"currency_code"`
	Value    string `json:"value"`
}

type Capture struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	CreateTime string `json:"create_time"`
	Final      bool   `json:"final_capture"`
	Amount     Amount `json:"amount"`
}

type Payments struct {
	Captures []Capture `json:"captures"`
}

type PurchaseUnit struct {
	ReferenceID string    `json:"reference_id,omitempty"`
	Description string    `json:"description,omitempty"`
	CustomID    string    `json:"custom_id,omitempty"`
	Amount      *Amount   `json:"amount,omitempty"`
	Payments    *Payments `json:"payments,omitempty"`
}

type ApplicationContext struct {
	BrandName   string `json:"brand_name,omitempty"`
	LandingPage string `json:"landing_page,omitempty"`
	UserAction  string `json:"user_action,omitempty"`
	ReturnURL   string `json:"return_url,omitempty"`
	CancelURL   string `json:"cancel_url,omitempty"`
}

type PaypalOrderRequest struct {
	Intent             string              `json:"intent"`
	ApplicationContext *ApplicationContext `json:"application_context,omitempty"`
	PurchaseUnits      []PurchaseUnit      `json:"purchase_units"`
}

// PaypalOrder is the subset of the Orders v2 resource this service reads.
type PaypalOrder struct {
	ID            string         `json:"id"`
	Intent        string         `json:"intent"`
	Status        string         `json:"status"`
	Links         []PaypalLink   `json:"links"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
}

// PaypalErrorBody is PayPal's error envelope for 4xx/5xx responses.
type PaypalErrorBody struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	DebugID string `json:"debug_id"`
	Details []struct {
		Issue       string `json:"issue"`
		Description string `json:"description"`
	} `json:"details"`

	// oauth2 endpoint errors
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
