package service

import (
	"context"

	"connectrpc.com/connect"

	gachav1 "github.com/YJlang/gacha/internal/api/gachav1"
	"github.com/YJlang/gacha/internal/catalog"
	"github.com/YJlang/gacha/internal/gacha"
)

// GachaServer implements the draw RPCs
type GachaServer struct {
	gacha *gacha.Service
}

// NewGachaServer creates a new GachaServer instance
func NewGachaServer(svc *gacha.Service) *GachaServer {
	return &GachaServer{gacha: svc}
}

// Draw draws today's destination for the caller
func (s *GachaServer) Draw(
	ctx context.Context,
	req *connect.Request[gachav1.DrawRequest],
) (*connect.Response[gachav1.DrawResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.gacha.Draw(ctx, userID, catalog.Filter{
		Region:  req.Msg.Region,
		Program: req.Msg.Program,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&gachav1.DrawResponse{
		Destination: result.Destination,
		IsNew:       result.IsNew,
		DrawnAt:     result.DrawnAt,
	}), nil
}

// Status reports the caller's quota for today
func (s *GachaServer) Status(
	ctx context.Context,
	req *connect.Request[gachav1.StatusRequest],
) (*connect.Response[gachav1.StatusResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	status, err := s.gacha.Status(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&gachav1.StatusResponse{
		CanDraw:      status.CanDraw,
		Remaining:    int32(status.Remaining),
		LastDrawTime: status.LastDrawTime,
		TodayCount:   int32(status.TodayCount),
		DailyLimit:   int32(s.gacha.Limit()),
		NextResetAt:  status.NextResetAt,
	}), nil
}

// History lists the caller's past draws, newest first
func (s *GachaServer) History(
	ctx context.Context,
	req *connect.Request[gachav1.HistoryRequest],
) (*connect.Response[gachav1.HistoryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	page, size, offset := gachav1.NormalizePage(req.Msg.Page, req.Msg.Size)
	entries, total, err := s.gacha.History(ctx, userID, offset, int(size))
	if err != nil {
		return nil, toConnectError(err)
	}

	items := make([]gachav1.HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, gachav1.HistoryItem{
			ID:            e.Event.ID,
			DestinationID: e.Event.DestinationID,
			DrawnAt:       e.Event.DrawnAt,
			Destination:   e.Destination,
		})
	}

	return connect.NewResponse(&gachav1.HistoryResponse{
		Items:    items,
		PageInfo: gachav1.NewPageInfo(total, page, size),
	}), nil
}
