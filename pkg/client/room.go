package client

import (
	"bookcom/pkg/model"
)

type RoomClient struct {
	httpClient *HttpClient
}

func NewRoomClient(httpClient *HttpClient) *RoomClient {
	return &RoomClient{httpClient: httpClient}
}

func (c *RoomClient) GetAll() (*Response, error) {
	return c.httpClient.GET("/rooms")
}

func (c *RoomClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET("/rooms/" + id)
}

func (c *RoomClient) Book(id, email string, time any) (*Response, error) {
	return c.httpClient.PUT("/rooms/"+id, map[string]any{
		model.FieldBooked: true,
		model.FieldEmail:  email,
		model.FieldTime:   time,
	})
}

// Review posts review as the whole update body; it must carry a truthy
// "review" field.
func (c *RoomClient) Review(id string, review map[string]any) (*Response, error) {
	return c.httpClient.PUT("/rooms/"+id, review)
}

func (c *RoomClient) UpdateRaw(id string, rawBody []byte) (*Response, error) {
	return c.httpClient.PUTRaw("/rooms/"+id, rawBody)
}

func (c *RoomClient) DecodeRoom(resp *Response) (model.Room, error) {
	var room model.Room
	if err := resp.DecodeJSON(&room); err != nil {
		return nil, err
	}
	return room, nil
}

func (c *RoomClient) DecodeRooms(resp *Response) ([]model.Room, error) {
	var rooms []model.Room
	if err := resp.DecodeJSON(&rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}
