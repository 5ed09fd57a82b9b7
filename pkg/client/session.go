package client

type SessionClient struct {
	httpClient *HttpClient
}

func NewSessionClient(httpClient *HttpClient) *SessionClient {
	return &SessionClient{httpClient: httpClient}
}

// Login posts claims to /jwt. The token cookie lands in the shared jar.
func (c *SessionClient) Login(claims map[string]any) (*Response, error) {
	return c.httpClient.POST("/jwt", claims)
}

func (c *SessionClient) Logout() (*Response, error) {
	return c.httpClient.POST("/logOut", nil)
}
