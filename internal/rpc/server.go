package rpc

import (
	"context"

	"github.com/yourEmotion/goonrails/internal/models"
	"github.com/yourEmotion/goonrails/internal/service"
	"github.com/yourEmotion/goonrails/internal/validation"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// BlogService is the part of the blog service exposed over gRPC.
type BlogService interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, id int64, patch models.PostPatch) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) error
}

type Server struct {
	svc BlogService
}

func NewServer(svc BlogService) *Server {
	return &Server{svc: svc}
}

func (s *Server) ListPosts(ctx context.Context, _ *ListPostsRequest) (*ListPostsResponse, error) {
	posts, err := s.svc.ListPosts(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListPostsResponse{Posts: posts}, nil
}

func (s *Server) GetPost(ctx context.Context, req *GetPostRequest) (*models.Post, error) {
	post, err := s.svc.GetPost(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return post, nil
}

func (s *Server) CreatePost(ctx context.Context, req *CreatePostRequest) (*models.Post, error) {
	post, err := s.svc.CreatePost(ctx, models.PostInput{
		Title:   req.Title,
		Content: req.Content,
		UserID:  req.UserID,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return post, nil
}

func (s *Server) UpdatePost(ctx context.Context, req *UpdatePostRequest) (*models.Post, error) {
	post, err := s.svc.UpdatePost(ctx, req.ID, models.PostPatch{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return post, nil
}

func (s *Server) DeletePost(ctx context.Context, req *DeletePostRequest) (*EmptyResponse, error) {
	if err := s.svc.DeletePost(ctx, req.ID); err != nil {
		return nil, toStatus(err)
	}
	return &EmptyResponse{}, nil
}

func toStatus(err error) error {
	if ve, ok := validation.As(err); ok {
		return status.Error(codes.InvalidArgument, ve.Error())
	}
	if service.IsNotFound(err) {
		return status.Error(codes.NotFound, "post not found")
	}
	zap.L().Error("blog service failed", zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}
