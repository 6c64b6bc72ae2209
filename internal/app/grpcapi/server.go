// Package grpcapi binds the skins.SkinsPrice service to the market feed.
package grpcapi

import (
	"context"
	"errors"
	"math"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cswatch/catalog/api/gen/skinspb"
	domain "github.com/cswatch/catalog/internal/app/domain/market"
	"github.com/cswatch/catalog/internal/app/services/market"
	"github.com/cswatch/catalog/pkg/logger"
)

// Server implements skinspb.SkinsPriceServer over the market feed.
type Server struct {
	skinspb.UnimplementedSkinsPriceServer

	feed *market.Feed
	log  *logger.Logger
}

// NewServer constructs the gRPC price service.
func NewServer(feed *market.Feed, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewDefault("grpcapi")
	}
	return &Server{feed: feed, log: log}
}

// SubscribeToPriceUpdates streams tick updates for the requested skins until
// the client cancels or the transport fails. The subscription is always
// cancelled on the way out so the feed stops delivering to it.
func (s *Server) SubscribeToPriceUpdates(req *skinspb.PriceSubscriptionRequest, stream skinspb.SkinsPrice_SubscribeToPriceUpdatesServer) error {
	if req == nil {
		return status.Error(codes.InvalidArgument, "request is required")
	}

	sub := s.feed.Subscribe(req.GetSkinIds())
	defer sub.Cancel()

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return status.FromContextError(ctx.Err()).Err()
		case update, ok := <-sub.Updates():
			if !ok {
				return nil
			}
			if err := stream.Send(updateToProto(update)); err != nil {
				s.log.WithError(err).Debug("price stream send failed; dropping subscriber")
				return err
			}
		}
	}
}

// GetPriceHistory returns the range-sliced history for one skin.
func (s *Server) GetPriceHistory(_ context.Context, req *skinspb.PriceHistoryRequest) (*skinspb.PriceHistoryResponse, error) {
	if req == nil || req.GetSkinId() == "" {
		return nil, status.Error(codes.InvalidArgument, "skin_id is required")
	}

	name, points, err := s.feed.History(req.GetSkinId(), domain.ParseRange(req.GetTimeRange()))
	if err != nil {
		if errors.Is(err, market.ErrUnknownItem) {
			return nil, status.Errorf(codes.NotFound, "skin with ID %s not found", req.GetSkinId())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}

	resp := &skinspb.PriceHistoryResponse{
		SkinId:      req.GetSkinId(),
		SkinName:    name,
		PricePoints: make([]*skinspb.PricePoint, 0, len(points)),
	}
	for _, p := range points {
		resp.PricePoints = append(resp.PricePoints, &skinspb.PricePoint{
			Price:     roundPrice(p.Price),
			Timestamp: p.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}

func updateToProto(u domain.Update) *skinspb.PriceUpdate {
	return &skinspb.PriceUpdate{
		SkinId:           u.ID,
		SkinName:         u.Name,
		Price:            roundPrice(u.Price),
		Timestamp:        u.Timestamp.UTC().Format(time.RFC3339),
		ChangePercentage: u.ChangePct,
	}
}

// roundPrice applies the 2-decimal display rounding at the protocol
// boundary; the feed keeps full precision internally.
func roundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}
