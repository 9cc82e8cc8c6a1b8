// Package rpc exposes the blog service over gRPC. Messages are plain Go
// structs carried by a JSON codec, so no generated code is involved.
package rpc

import (
	"context"

	"github.com/yourEmotion/goonrails/internal/models"
	"google.golang.org/grpc"
)

const ServiceName = "blog.PostService"

type ListPostsRequest struct{}

type ListPostsResponse struct {
	Posts []models.Post `json:"posts"`
}

type GetPostRequest struct {
	ID int64 `json:"id"`
}

type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  int64  `json:"user_id"`
}

type UpdatePostRequest struct {
	ID      int64   `json:"id"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

type DeletePostRequest struct {
	ID int64 `json:"id"`
}

type EmptyResponse struct{}

// PostServiceServer is implemented by Server.
type PostServiceServer interface {
	ListPosts(context.Context, *ListPostsRequest) (*ListPostsResponse, error)
	GetPost(context.Context, *GetPostRequest) (*models.Post, error)
	CreatePost(context.Context, *CreatePostRequest) (*models.Post, error)
	UpdatePost(context.Context, *UpdatePostRequest) (*models.Post, error)
	DeletePost(context.Context, *DeletePostRequest) (*EmptyResponse, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PostServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListPosts", PostServiceServer.ListPosts),
		unary("GetPost", PostServiceServer.GetPost),
		unary("CreatePost", PostServiceServer.CreatePost),
		unary("UpdatePost", PostServiceServer.UpdatePost),
		unary("DeletePost", PostServiceServer.DeletePost),
	},
	Metadata: "goonrails/blog",
}

// RegisterPostServiceServer attaches srv to s.
func RegisterPostServiceServer(s grpc.ServiceRegistrar, srv PostServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

func fullMethod(name string) string { return "/" + ServiceName + "/" + name }

func unary[Req, Resp any](name string, call func(PostServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PostServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(PostServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
