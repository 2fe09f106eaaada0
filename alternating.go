package tower

// AlternatingReadyRequest represents a request passed to an alternating ready
// service. It carries no data.
type AlternatingReadyRequest struct{}

// AlternatingReadyResponse represents the response of an alternating ready
// service. It carries no data.
type AlternatingReadyResponse struct{}

// AlternatingReadyService is the service contract of an alternating ready service.
type AlternatingReadyService = Service[AlternatingReadyRequest, AlternatingReadyResponse]
