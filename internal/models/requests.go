package models

// CreateTicketTypeRequest is relayed to the backend's ticket-type endpoint.
// Price and quantity stay strings so the backend keeps decimal authority.
type CreateTicketTypeRequest struct {
	Event             string `json:"event"`
	Name              string `json:"name"`
	Price             string `json:"price"`
	QuantityAvailable string `json:"quantity_available"`
	IsLimited         bool   `json:"is_limited"`
}

// STKPushRequest initiates an M-Pesa payment for a booking. The phone number
// must match the 254XXXXXXXXX format before any network call is made.
type STKPushRequest struct {
	BookingReference string `json:"booking_reference"`
	PhoneNumber      string `json:"phone_number"`
}

type STKPushResponse struct {
	MerchantRequestID string `json:"merchant_request_id"`
	CheckoutRequestID string `json:"checkout_request_id"`
	ResponseCode      string `json:"response_code"`
	CustomerMessage   string `json:"customer_message"`
}

// CheckinUpdate is the PATCH body for the backend's ticket check-in endpoint.
type CheckinUpdate struct {
	IsUsed bool `json:"is_used"`
}

type M2MTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}
