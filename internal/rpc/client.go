package rpc

import (
	"context"

	"github.com/yourEmotion/goonrails/internal/models"
	"google.golang.org/grpc"
)

// Client calls blog.PostService over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	out := new(ListPostsResponse)
	if err := c.invoke(ctx, "ListPosts", &ListPostsRequest{}, out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

func (c *Client) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	out := new(models.Post)
	if err := c.invoke(ctx, "GetPost", &GetPostRequest{ID: id}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePost(ctx context.Context, req *CreatePostRequest) (*models.Post, error) {
	out := new(models.Post)
	if err := c.invoke(ctx, "CreatePost", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdatePost(ctx context.Context, req *UpdatePostRequest) (*models.Post, error) {
	out := new(models.Post)
	if err := c.invoke(ctx, "UpdatePost", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.invoke(ctx, "DeletePost", &DeletePostRequest{ID: id}, new(EmptyResponse))
}

func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	return c.cc.Invoke(ctx, fullMethod(method), in, out, grpc.CallContentSubtype(CodecName))
}
