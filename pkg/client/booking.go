package client

import (
	"bookcom/pkg/model"
)

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(httpClient *HttpClient) *BookingClient {
	return &BookingClient{httpClient: httpClient}
}

// Claim needs a session; see SessionClient.Login.
func (c *BookingClient) Claim() (*Response, error) {
	return c.httpClient.GET("/bookings")
}

func (c *BookingClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET("/bookings/" + id)
}

func (c *BookingClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/bookings", body)
}

func (c *BookingClient) CreateWithKey(body any, idempotencyKey string) (*Response, error) {
	return c.httpClient.POSTWithHeaders("/bookings", body, map[string]string{
		"Idempotency-Key": idempotencyKey,
	})
}

func (c *BookingClient) CreateRaw(rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw("/bookings", rawBody)
}

func (c *BookingClient) UpdateTime(id string, time any) (*Response, error) {
	return c.httpClient.PUT("/bookings/"+id, model.BookingTimeUpdate{Time: time})
}

func (c *BookingClient) Delete(id string) (*Response, error) {
	return c.httpClient.DELETE("/bookings/" + id)
}

func (c *BookingClient) DecodeBooking(resp *Response) (model.Booking, error) {
	var booking model.Booking
	if err := resp.DecodeJSON(&booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (c *BookingClient) DecodeBookings(resp *Response) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := resp.DecodeJSON(&bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *BookingClient) DecodeInsertResult(resp *Response) (*model.InsertResult, error) {
	var result model.InsertResult
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *BookingClient) DecodeUpdateResult(resp *Response) (*model.UpdateResult, error) {
	var result model.UpdateResult
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *BookingClient) DecodeDeleteResult(resp *Response) (*model.DeleteResult, error) {
	var result model.DeleteResult
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
