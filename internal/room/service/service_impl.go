package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stayware/stayflow/internal/room/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	log  *zap.Logger
	repo domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		log:  p.Log.Named("room.service"),
		repo: p.Repo,
	}
}

func (s *Service) CheckAvailability(ctx context.Context, req domain.AvailabilityRequest) (*domain.AvailabilityResponse, error) {
	if req.CheckOut.Before(req.CheckIn) {
		return nil, domain.ErrInvalidStay
	}

	nights := stayNights(req.CheckIn, req.CheckOut)

	roomIDs := req.RoomIDs
	if len(roomIDs) == 0 {
		rooms, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		roomIDs = make([]uuid.UUID, 0, len(rooms))
		for _, room := range rooms {
			roomIDs = append(roomIDs, room.ID)
		}
	}

	resp := &domain.AvailabilityResponse{
		AllAvailable:   true,
		Rooms:          make([]domain.RoomAvailability, 0, len(roomIDs)),
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		Nights:         nights,
		EstimatedTotal: decimal.Zero,
	}

	for _, roomID := range roomIDs {
		room, err := s.repo.FindByID(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if room == nil {
			return nil, domain.ErrRoomNotFound
		}

		conflict, err := s.repo.HasConflictingStay(ctx, room.ID, req.CheckIn, req.CheckOut)
		if err != nil {
			return nil, err
		}

		available := !conflict
		if !available {
			resp.AllAvailable = false
		}

		price := room.Type.PricePerNight
		if available {
			resp.EstimatedTotal = resp.EstimatedTotal.Add(price.Mul(decimal.NewFromInt(nights)))
		}

		resp.Rooms = append(resp.Rooms, domain.RoomAvailability{
			RoomID:        room.ID,
			RoomNumber:    room.RoomNumber,
			Available:     available,
			TypeName:      room.Type.Name,
			PricePerNight: price,
		})
	}

	return resp, nil
}

func (s *Service) AvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]domain.Room, error) {
	rooms, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Room, 0, len(rooms))
	for _, room := range rooms {
		conflict, err := s.repo.HasConflictingStay(ctx, room.ID, checkIn, checkOut)
		if err != nil {
			return nil, err
		}
		if !conflict {
			out = append(out, room)
		}
	}
	return out, nil
}

func (s *Service) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if room == nil {
		return domain.ErrRoomNotFound
	}
	if room.InUse() {
		s.log.Warn("refusing to delete room in use",
			zap.String("room_number", room.RoomNumber),
			zap.String("status", room.StatusName),
		)
		return domain.ErrRoomInUse
	}
	return s.repo.Delete(ctx, room)
}

func stayNights(checkIn, checkOut time.Time) int64 {
	nights := int64(checkOut.Sub(checkIn).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	return nights
}
