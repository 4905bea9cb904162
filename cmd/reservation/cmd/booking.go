package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/core/ports"
	"github.com/hotelbooking/reservation-client/internal/core/service"
)

type stayOptions struct {
	roomID   int64
	checkIn  string
	checkOut string
}

type bookOptions struct {
	stayOptions
	name     string
	email    string
	guests   int
	requests string
}

type quoteView struct {
	RoomID      int64   `json:"roomId"`
	RoomNumber  string  `json:"roomNumber"`
	Nights      int     `json:"nights"`
	NightlyRate float64 `json:"nightlyRate"`
	TotalAmount float64 `json:"totalAmount"`
}

var (
	quoteOpts stayOptions
	bookOpts  bookOptions
	roomsOpts ports.AvailabilityQuery
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a stay in a room",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runQuote(ctx, a, cmd.OutOrStdout(), quoteOpts)
		})
	},
}

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Validate and submit a booking",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runBook(ctx, a, cmd.OutOrStdout(), bookOpts)
		})
	},
}

var findCmd = &cobra.Command{
	Use:   "find <confirmation-code>",
	Short: "Look up a booking by its confirmation code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			booking, err := a.client.BookingByConfirmationCode(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), booking)
		})
	},
}

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List rooms, or the ones free for a stay when dates are given",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runRooms(ctx, a, cmd.OutOrStdout(), roomsOpts)
		})
	},
}

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "List the signed-in user's bookings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			bookings, err := a.client.MyBookings(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), bookings)
		})
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <booking-id>",
	Short: "Cancel a booking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid booking id %q", args[0])
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return a.client.CancelBooking(ctx, id)
		})
	},
}

func init() {
	rootCmd.AddCommand(quoteCmd, bookCmd, findCmd, roomsCmd, bookingsCmd, cancelCmd)

	stayFlags := func(cmd *cobra.Command, o *stayOptions) {
		cmd.Flags().Int64Var(&o.roomID, "room", 0, "Room id")
		cmd.Flags().StringVar(&o.checkIn, "check-in", "", "Check-in date (YYYY-MM-DD)")
		cmd.Flags().StringVar(&o.checkOut, "check-out", "", "Check-out date (YYYY-MM-DD)")
		_ = cmd.MarkFlagRequired("room")
	}
	stayFlags(quoteCmd, &quoteOpts)
	stayFlags(bookCmd, &bookOpts.stayOptions)

	bookCmd.Flags().StringVar(&bookOpts.name, "name", "", "Guest full name")
	bookCmd.Flags().StringVar(&bookOpts.email, "email", "", "Guest email")
	bookCmd.Flags().IntVar(&bookOpts.guests, "guests", domain.DefaultNumberOfGuests, "Number of guests")
	bookCmd.Flags().StringVar(&bookOpts.requests, "requests", "", "Special requests")

	roomsCmd.Flags().StringVar(&roomsOpts.CheckIn, "check-in", "", "Check-in date (YYYY-MM-DD)")
	roomsCmd.Flags().StringVar(&roomsOpts.CheckOut, "check-out", "", "Check-out date (YYYY-MM-DD)")
	roomsCmd.Flags().StringVar(&roomsOpts.RoomType, "type", "", "Room type")
}

func runQuote(ctx context.Context, a *app, out io.Writer, o stayOptions) error {
	if err := domain.ValidateRange(o.checkIn, o.checkOut); err != nil {
		return err
	}
	room, err := a.client.GetRoom(ctx, o.roomID)
	if err != nil {
		return err
	}
	return printJSON(out, quoteView{
		RoomID:      room.ID,
		RoomNumber:  room.RoomNumber,
		Nights:      domain.Nights(o.checkIn, o.checkOut),
		NightlyRate: room.Price,
		TotalAmount: domain.Total(o.checkIn, o.checkOut, room.Price),
	})
}

// runBook drives one workflow from draft to confirmed booking. Nothing is
// sent unless the draft validates locally.
func runBook(ctx context.Context, a *app, out io.Writer, o bookOptions) error {
	if !a.session.Snapshot().Authenticated() {
		return domain.ErrNotAuthenticated
	}

	room, err := a.client.GetRoom(ctx, o.roomID)
	if err != nil {
		return err
	}

	wf := service.NewBookingWorkflow(a.client, domain.BookingDraft{
		RoomID:          o.roomID,
		GuestName:       o.name,
		GuestEmail:      o.email,
		CheckInDate:     o.checkIn,
		CheckOutDate:    o.checkOut,
		NumberOfGuests:  o.guests,
		SpecialRequests: o.requests,
	}, room.Price, a.log, a.journalOptions()...)

	if err := wf.Validate(); err != nil {
		return err
	}
	booking, err := wf.Submit(ctx)
	if err != nil {
		return err
	}
	return printJSON(out, booking)
}

func runRooms(ctx context.Context, a *app, out io.Writer, q ports.AvailabilityQuery) error {
	if q.CheckIn == "" && q.CheckOut == "" && q.RoomType == "" {
		rooms, err := a.client.ListRooms(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, rooms)
	}
	if q.CheckIn != "" && q.CheckOut != "" {
		if err := domain.ValidateRange(q.CheckIn, q.CheckOut); err != nil {
			return err
		}
	}
	rooms, err := a.client.AvailableRooms(ctx, q)
	if err != nil {
		return err
	}
	return printJSON(out, rooms)
}
