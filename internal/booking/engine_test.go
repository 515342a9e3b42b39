package booking

import (
    "context"
    "errors"
    "math/rand"
    "testing"
    "time"

    "github.com/sclab/seat-reservation/internal/clock"
    "github.com/sclab/seat-reservation/internal/model"
)

// memStore is an in-memory Store used to exercise the engine without a
// database.  failTx makes the next n InTx calls lose a commit race so the
// retry path can be tested.
type memStore struct {
    seats        map[uint64]bool // seat id -> bookable
    reservations map[uint64]*model.Reservation
    nextID       uint64
    failTx       int
}

func newMemStore() *memStore {
    seats := make(map[uint64]bool)
    for id := uint64(1); id <= 13; id++ {
        seats[id] = id != 2 && id != 4 // seats 2 and 4 are fixed
    }
    return &memStore{seats: seats, reservations: make(map[uint64]*model.Reservation)}
}

func (s *memStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
    if s.failTx > 0 {
        s.failTx--
        return ErrTxConflict
    }
    return fn(&memTx{s: s})
}

type memTx struct{ s *memStore }

func (t *memTx) SeatBookable(ctx context.Context, seatID uint64) (bool, error) {
    return t.s.seats[seatID], nil
}

func (t *memTx) HasNonCancelled(ctx context.Context, userID uint64, refDate time.Time) (bool, error) {
    for _, r := range t.s.reservations {
        if r.UserID == userID && r.RefDate.Equal(refDate) && r.Status != model.StatusCancelled {
            return true, nil
        }
    }
    return false, nil
}

func (t *memTx) ListForSeatDay(ctx context.Context, seatID uint64, refDate time.Time) ([]model.Reservation, error) {
    var out []model.Reservation
    for _, r := range t.s.reservations {
        if r.SeatID != seatID || !r.RefDate.Equal(refDate) {
            continue
        }
        if r.Status == model.StatusActive ||
            (r.Status == model.StatusExpired && r.CheckoutAt != nil) {
            out = append(out, *r)
        }
    }
    return out, nil
}

func (t *memTx) ListActiveForDay(ctx context.Context, refDate time.Time) ([]model.Reservation, error) {
    var out []model.Reservation
    for _, r := range t.s.reservations {
        if r.RefDate.Equal(refDate) && r.Status == model.StatusActive {
            out = append(out, *r)
        }
    }
    return out, nil
}

func (t *memTx) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
    r, ok := t.s.reservations[id]
    if !ok {
        return nil, ErrNotFound
    }
    cp := *r
    return &cp, nil
}

func (t *memTx) Insert(ctx context.Context, r *model.Reservation) error {
    t.s.nextID++
    r.ID = t.s.nextID
    cp := *r
    t.s.reservations[r.ID] = &cp
    return nil
}

func (t *memTx) Update(ctx context.Context, r *model.Reservation) error {
    if _, ok := t.s.reservations[r.ID]; !ok {
        return ErrNotFound
    }
    cp := *r
    t.s.reservations[r.ID] = &cp
    return nil
}

// at returns a fixed clock pinned to hh:mm on the reference day.
func at(hh, mm int) *clock.Fixed {
    return clock.NewFixed(time.Date(2025, time.March, 14, hh, mm, 0, 0, time.UTC))
}

func newTestEngine(clk clock.Clock) (*Engine, *memStore) {
    store := newMemStore()
    return NewEngine(store, clk), store
}

func TestCreateRejectsInvalidSpans(t *testing.T) {
    e, _ := newTestEngine(at(9, 0))
    cases := []struct{ start, end int }{
        {8, 10},  // before opening
        {23, 25}, // past close
        {12, 9},  // reversed
        {9, 13},  // five hours
    }
    for _, tc := range cases {
        if _, err := e.Create(context.Background(), 1, 1, tc.start, tc.end); !errors.Is(err, ErrInvalidSpan) {
            t.Errorf("Create(%d, %d) error = %v, want ErrInvalidSpan", tc.start, tc.end, err)
        }
    }
}

func TestCreateRejectsUnknownAndFixedSeats(t *testing.T) {
    e, _ := newTestEngine(at(9, 0))
    if _, err := e.Create(context.Background(), 99, 1, 9, 10); !errors.Is(err, ErrSeatNotFound) {
        t.Fatalf("unknown seat error = %v, want ErrSeatNotFound", err)
    }
    if _, err := e.Create(context.Background(), 2, 1, 9, 10); !errors.Is(err, ErrSeatNotFound) {
        t.Fatalf("fixed seat error = %v, want ErrSeatNotFound", err)
    }
}

func TestCreateSetsInitialState(t *testing.T) {
    clk := at(9, 0)
    e, _ := newTestEngine(clk)
    r, err := e.Create(context.Background(), 3, 1, 9, 12)
    if err != nil {
        t.Fatalf("Create: %v", err)
    }
    if r.Status != model.StatusActive {
        t.Errorf("status = %q, want ACTIVE", r.Status)
    }
    if r.StartedAt != 9 || r.EndedAt != 12 {
        t.Errorf("window = [%d,%d], want [9,12]", r.StartedAt, r.EndedAt)
    }
    if !r.RefDate.Equal(clk.RefDate()) {
        t.Errorf("refDate = %v, want %v", r.RefDate, clk.RefDate())
    }
    if r.CheckoutAt != nil || r.ExtendedCount != 0 {
        t.Error("new reservation must have no checkout or extension state")
    }
}

// One reservation per user per day, second seat or not.
func TestCreateDuplicateDaily(t *testing.T) {
    e, _ := newTestEngine(at(9, 0))
    if _, err := e.Create(context.Background(), 3, 1, 9, 10); err != nil {
        t.Fatalf("first Create: %v", err)
    }
    if _, err := e.Create(context.Background(), 5, 1, 13, 14); !errors.Is(err, ErrDuplicateDaily) {
        t.Fatalf("second Create error = %v, want ErrDuplicateDaily", err)
    }
}

// A cancelled reservation does not count against the daily limit.
func TestCreateAfterCancellationAllowed(t *testing.T) {
    e, _ := newTestEngine(at(9, 0))
    r, err := e.Create(context.Background(), 3, 1, 12, 14)
    if err != nil {
        t.Fatalf("Create: %v", err)
    }
    if _, err := e.Depart(context.Background(), r.ID, 1); err != nil {
        t.Fatalf("Depart: %v", err)
    }
    if _, err := e.Create(context.Background(), 5, 1, 15, 16); err != nil {
        t.Fatalf("Create after cancellation: %v", err)
    }
}

func TestCreateSlotConflict(t *testing.T) {
    e, _ := newTestEngine(at(9, 0))
    if _, err := e.Create(context.Background(), 3, 1, 10, 12); err != nil {
        t.Fatalf("first Create: %v", err)
    }
    if _, err := e.Create(context.Background(), 3, 2, 12, 13); !errors.Is(err, ErrSlotConflict) {
        t.Fatalf("overlapping Create error = %v, want ErrSlotConflict", err)
    }
    // A different seat at the same hours is fine.
    if _, err := e.Create(context.Background(), 5, 2, 12, 13); err != nil {
        t.Fatalf("Create on free seat: %v", err)
    }
}

// Spec scenario: 09–12 reservation departed at hour 9 expires with the
// window clipped to 9, and the freed hours are immediately bookable.
func TestDepartWithinWindowClipsAndFrees(t *testing.T) {
    clk := at(9, 20)
    e, _ := newTestEngine(clk)
    r, err := e.Create(context.Background(), 3, 1, 9, 12)
    if err != nil {
        t.Fatalf("Create: %v", err)
    }

    got, err := e.Depart(context.Background(), r.ID, 1)
    if err != nil {
        t.Fatalf("Depart: %v", err)
    }
    if got.Status != model.StatusExpired {
        t.Errorf("status = %q, want EXPIRED", got.Status)
    }
    if got.EndedAt != 9 {
        t.Errorf("endedAt = %d, want 9", got.EndedAt)
    }
    if got.CheckoutAt == nil || !got.CheckoutAt.Equal(clk.Now()) {
        t.Errorf("checkoutAt = %v, want %v", got.CheckoutAt, clk.Now())
    }

    clk.Set(time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC))
    if _, err := e.Create(context.Background(), 3, 2, 10, 11); err != nil {
        t.Fatalf("Create on freed hours: %v", err)
    }
}

// Spec scenario: departing a 12–14 reservation at hour 9 cancels it and
// leaves the window untouched.
func TestDepartBeforeStartCancels(t *testing.T) {
    e, _ := newTestEngine(at(9, 0))
    r, err := e.Create(context.Background(), 3, 1, 12, 14)
    if err != nil {
        t.Fatalf("Create: %v", err)
    }
    got, err := e.Depart(context.Background(), r.ID, 1)
    if err != nil {
        t.Fatalf("Depart: %v", err)
    }
    if got.Status != model.StatusCancelled {
        t.Errorf("status = %q, want CANCELLED", got.Status)
    }
    if got.EndedAt != 14 {
        t.Errorf("endedAt = %d, want unchanged 14", got.EndedAt)
    }
    if got.CheckoutAt == nil {
        t.Error("checkoutAt must be set on cancellation")
    }
}

// Spec scenario: departing a 9–11 reservation at hour 15 expires it with the
// full window intact.
func TestDepartAfterWindowKeepsWindow(t *testing.T) {
    clk := at(9, 0)
    e, _ := newTestEngine(clk)
    r, err := e.Create(context.Background(), 3, 1, 9, 11)
    if err != nil {
        t.Fatalf("Create: %v", err)
    }
    clk.Set(time.Date(2025, time.March, 14, 15, 0, 0, 0, time.UTC))
    got, err := e.Depart(context.Background(), r.ID, 1)
    if err != nil {
        t.Fatalf("Depart: %v", err)
    }
    if got.Status != model.StatusExpired {
        t.Errorf("status = %q, want EXPIRED", got.Status)
    }
    if got.EndedAt != 11 {
        t.Errorf("endedAt = %d, want unchanged 11", got.EndedAt)
    }
}

// The within-window split is inclusive on both bounds: departing exactly at
// the start hour clips (not cancels), and departing exactly at the end hour
// still counts as in-window usage.
func TestDepartBoundaryHours(t *testing.T) {
    t.Run("at start hour", func(t *testing.T) {
        clk := at(10, 0)
        e, _ := newTestEngine(clk)
        r, _ := e.Create(context.Background(), 3, 1, 10, 13)
        got, err := e.Depart(context.Background(), r.ID, 1)
        if err != nil {
            t.Fatalf("Depart: %v", err)
        }
        if got.Status != model.StatusExpired || got.EndedAt != 10 {
            t.Fatalf("got %q/%d, want EXPIRED/10", got.Status, got.EndedAt)
        }
    })
    t.Run("at end hour", func(t *testing.T) {
        clk := at(10, 0)
        e, _ := newTestEngine(clk)
        r, _ := e.Create(context.Background(), 3, 1, 10, 13)
        clk.Set(time.Date(2025, time.March, 14, 13, 59, 0, 0, time.UTC))
        got, err := e.Depart(context.Background(), r.ID, 1)
        if err != nil {
            t.Fatalf("Depart: %v", err)
        }
        if got.Status != model.StatusExpired || got.EndedAt != 13 {
            t.Fatalf("got %q/%d, want EXPIRED/13", got.Status, got.EndedAt)
        }
    })
}

func TestDepartTwiceFailsInvalidState(t *testing.T) {
    clk := at(9, 20)
    e, store := newTestEngine(clk)
    r, _ := e.Create(context.Background(), 3, 1, 9, 12)
    first, err := e.Depart(context.Background(), r.ID, 1)
    if err != nil {
        t.Fatalf("first Depart: %v", err)
    }

    clk.Advance(30 * time.Minute)
    if _, err := e.Depart(context.Background(), r.ID, 1); !errors.Is(err, ErrInvalidState) {
        t.Fatalf("second Depart error = %v, want ErrInvalidState", err)
    }
    stored := store.reservations[r.ID]
    if !stored.CheckoutAt.Equal(*first.CheckoutAt) {
        t.Fatalf("checkoutAt changed by failed depart: %v vs %v", stored.CheckoutAt, first.CheckoutAt)
    }
}

func TestDepartOwnershipAndExistence(t *testing.T) {
    e, _ := newTestEngine(at(9, 0))
    if _, err := e.Depart(context.Background(), 42, 1); !errors.Is(err, ErrNotFound) {
        t.Fatalf("missing reservation error = %v, want ErrNotFound", err)
    }
    r, _ := e.Create(context.Background(), 3, 1, 9, 10)
    if _, err := e.Depart(context.Background(), r.ID, 2); !errors.Is(err, ErrForbidden) {
        t.Fatalf("foreign depart error = %v, want ErrForbidden", err)
    }
}

// Spec scenario: with a 09–12 reservation, extending 30 minutes before the
// window closes is too early; at 15 minutes it succeeds and grows the
// window by two hours.
func TestExtendGate(t *testing.T) {
    t.Run("too early", func(t *testing.T) {
        clk := at(9, 0)
        e, _ := newTestEngine(clk)
        r, _ := e.Create(context.Background(), 3, 1, 9, 12)
        clk.Set(time.Date(2025, time.March, 14, 12, 30, 0, 0, time.UTC))
        if _, err := e.Extend(context.Background(), r.ID, 1, 2); !errors.Is(err, ErrExtendTooEarly) {
            t.Fatalf("Extend error = %v, want ErrExtendTooEarly", err)
        }
    })
    t.Run("inside window", func(t *testing.T) {
        clk := at(9, 0)
        e, _ := newTestEngine(clk)
        r, _ := e.Create(context.Background(), 3, 1, 9, 12)
        clk.Set(time.Date(2025, time.March, 14, 12, 45, 0, 0, time.UTC))
        got, err := e.Extend(context.Background(), r.ID, 1, 2)
        if err != nil {
            t.Fatalf("Extend: %v", err)
        }
        if got.EndedAt != 14 {
            t.Errorf("endedAt = %d, want 14", got.EndedAt)
        }
        if got.ExtendedCount != 1 {
            t.Errorf("extendedCount = %d, want 1", got.ExtendedCount)
        }
        if got.ExtendedAt == nil || !got.ExtendedAt.Equal(clk.Now()) {
            t.Errorf("extendedAt = %v, want %v", got.ExtendedAt, clk.Now())
        }
        if got.Status != model.StatusActive {
            t.Errorf("status = %q, want ACTIVE", got.Status)
        }
    })
}

func TestExtendConflictWithFollowingReservation(t *testing.T) {
    clk := at(9, 0)
    e, _ := newTestEngine(clk)
    r, _ := e.Create(context.Background(), 3, 1, 9, 12)
    if _, err := e.Create(context.Background(), 3, 2, 13, 14); err != nil {
        t.Fatalf("Create follower: %v", err)
    }
    clk.Set(time.Date(2025, time.March, 14, 12, 45, 0, 0, time.UTC))
    if _, err := e.Extend(context.Background(), r.ID, 1, 1); !errors.Is(err, ErrSlotConflict) {
        t.Fatalf("Extend error = %v, want ErrSlotConflict", err)
    }
}

func TestExtendValidation(t *testing.T) {
    clk := at(9, 0)
    e, _ := newTestEngine(clk)
    r, _ := e.Create(context.Background(), 3, 1, 22, 23)

    if _, err := e.Extend(context.Background(), r.ID, 1, 0); !errors.Is(err, ErrInvalidSpan) {
        t.Fatalf("extraHours=0 error = %v, want ErrInvalidSpan", err)
    }
    if _, err := e.Extend(context.Background(), r.ID, 1, 4); !errors.Is(err, ErrInvalidSpan) {
        t.Fatalf("extraHours=4 error = %v, want ErrInvalidSpan", err)
    }

    // 24 is the last hour on the grid; extending past it is rejected even
    // inside the 20-minute window.
    clk.Set(time.Date(2025, time.March, 14, 23, 45, 0, 0, time.UTC))
    if _, err := e.Extend(context.Background(), r.ID, 1, 2); !errors.Is(err, ErrInvalidSpan) {
        t.Fatalf("past-close Extend error = %v, want ErrInvalidSpan", err)
    }
}

func TestExtendOnlyOncePerReservation(t *testing.T) {
    clk := at(9, 0)
    e, _ := newTestEngine(clk)
    r, _ := e.Create(context.Background(), 3, 1, 9, 12)
    clk.Set(time.Date(2025, time.March, 14, 12, 45, 0, 0, time.UTC))
    if _, err := e.Extend(context.Background(), r.ID, 1, 1); err != nil {
        t.Fatalf("first Extend: %v", err)
    }
    clk.Set(time.Date(2025, time.March, 14, 13, 45, 0, 0, time.UTC))
    if _, err := e.Extend(context.Background(), r.ID, 1, 1); !errors.Is(err, ErrInvalidSpan) {
        t.Fatalf("second Extend error = %v, want ErrInvalidSpan", err)
    }
}

func TestExtendPreconditions(t *testing.T) {
    clk := at(9, 0)
    e, _ := newTestEngine(clk)
    if _, err := e.Extend(context.Background(), 42, 1, 1); !errors.Is(err, ErrNotFound) {
        t.Fatalf("missing reservation error = %v, want ErrNotFound", err)
    }
    r, _ := e.Create(context.Background(), 3, 1, 9, 12)
    if _, err := e.Extend(context.Background(), r.ID, 2, 1); !errors.Is(err, ErrForbidden) {
        t.Fatalf("foreign extend error = %v, want ErrForbidden", err)
    }
    if _, err := e.Depart(context.Background(), r.ID, 1); err != nil {
        t.Fatalf("Depart: %v", err)
    }
    if _, err := e.Extend(context.Background(), r.ID, 1, 1); !errors.Is(err, ErrInvalidState) {
        t.Fatalf("extend after depart error = %v, want ErrInvalidState", err)
    }
}

func TestAvailabilityReflectsLifecycle(t *testing.T) {
    clk := at(9, 20)
    e, _ := newTestEngine(clk)
    refDate := clk.RefDate()

    r1, _ := e.Create(context.Background(), 3, 1, 9, 12)
    if _, err := e.Depart(context.Background(), r1.ID, 1); err != nil { // clips to 9
        t.Fatalf("Depart: %v", err)
    }
    clk.Set(time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC))
    if _, err := e.Create(context.Background(), 3, 2, 13, 14); err != nil {
        t.Fatalf("Create: %v", err)
    }
    r3, _ := e.Create(context.Background(), 5, 3, 16, 17)
    clk.Set(time.Date(2025, time.March, 14, 15, 0, 0, 0, time.UTC))
    if _, err := e.Depart(context.Background(), r3.ID, 3); err != nil { // before start: cancelled
        t.Fatalf("Depart: %v", err)
    }

    got, err := e.Availability(context.Background(), 3, refDate)
    if err != nil {
        t.Fatalf("Availability: %v", err)
    }
    want := []int{0, 4, 5} // hour 9 (clipped usage) plus 13-14
    if len(got) != len(want) {
        t.Fatalf("occupied slots = %v, want %v", got, want)
    }
    for i := range want {
        if got[i] != want[i] {
            t.Fatalf("occupied slots = %v, want %v", got, want)
        }
    }

    free, err := e.Availability(context.Background(), 5, refDate)
    if err != nil {
        t.Fatalf("Availability: %v", err)
    }
    if len(free) != 0 {
        t.Fatalf("cancelled reservation still occupies slots: %v", free)
    }
}

func TestListForDayReturnsOnlyActive(t *testing.T) {
    clk := at(9, 20)
    e, _ := newTestEngine(clk)
    r1, _ := e.Create(context.Background(), 3, 1, 9, 12)
    if _, err := e.Create(context.Background(), 5, 2, 10, 11); err != nil {
        t.Fatalf("Create: %v", err)
    }
    if _, err := e.Depart(context.Background(), r1.ID, 1); err != nil {
        t.Fatalf("Depart: %v", err)
    }

    rs, err := e.ListForDay(context.Background(), clk.RefDate())
    if err != nil {
        t.Fatalf("ListForDay: %v", err)
    }
    if len(rs) != 1 || rs[0].UserID != 2 {
        t.Fatalf("ListForDay = %+v, want the single active reservation of user 2", rs)
    }
}

func TestTxConflictRetriedOnce(t *testing.T) {
    e, store := newTestEngine(at(9, 0))

    store.failTx = 1
    if _, err := e.Create(context.Background(), 3, 1, 9, 10); err != nil {
        t.Fatalf("Create with one conflict: %v, want retry to succeed", err)
    }

    store.failTx = 2
    if _, err := e.Create(context.Background(), 5, 2, 9, 10); !errors.Is(err, ErrConcurrentModification) {
        t.Fatalf("Create with two conflicts error = %v, want ErrConcurrentModification", err)
    }
}

// Feeding Create random spans must never leave two ACTIVE reservations on
// the same seat and day with intersecting windows.
func TestActiveIntervalsNeverOverlap(t *testing.T) {
    e, store := newTestEngine(at(9, 0))
    rng := rand.New(rand.NewSource(1))

    for user := uint64(1); user <= 200; user++ {
        seatID := uint64(rng.Intn(13) + 1)
        start := 9 + rng.Intn(16)
        end := start + rng.Intn(4)
        if end > 24 {
            end = 24
        }
        _, err := e.Create(context.Background(), seatID, user, start, end)
        switch {
        case err == nil,
            errors.Is(err, ErrSlotConflict),
            errors.Is(err, ErrSeatNotFound),
            errors.Is(err, ErrInvalidSpan):
        default:
            t.Fatalf("Create(%d, %d, %d, %d): unexpected error %v", seatID, user, start, end, err)
        }
    }

    bySeat := make(map[uint64][]*model.Reservation)
    for _, r := range store.reservations {
        if r.Status == model.StatusActive {
            bySeat[r.SeatID] = append(bySeat[r.SeatID], r)
        }
    }
    for seatID, rs := range bySeat {
        for i := 0; i < len(rs); i++ {
            for j := i + 1; j < len(rs); j++ {
                a, b := rs[i], rs[j]
                if a.StartedAt <= b.EndedAt && a.EndedAt >= b.StartedAt {
                    t.Fatalf("seat %d: overlapping active reservations [%d,%d] and [%d,%d]",
                        seatID, a.StartedAt, a.EndedAt, b.StartedAt, b.EndedAt)
                }
            }
        }
    }
}

func TestDepartDuringFinalSlot(t *testing.T) {
    // The last bookable hour is 24, which the wall clock reports as hour 0
    // of the next day.  Leaving inside that slot is a departure within the
    // window, not a pre-start cancellation.
    clk := at(23, 0)
    e, _ := newTestEngine(clk)
    r, err := e.Create(context.Background(), 1, 1, 22, 24)
    if err != nil {
        t.Fatalf("Create: %v", err)
    }

    clk.Set(time.Date(2025, time.March, 15, 0, 30, 0, 0, time.UTC))
    got, err := e.Depart(context.Background(), r.ID, 1)
    if err != nil {
        t.Fatalf("Depart: %v", err)
    }
    if got.Status != model.StatusExpired {
        t.Fatalf("status = %s, want EXPIRED", got.Status)
    }
    if got.EndedAt != 24 {
        t.Fatalf("EndedAt = %d, want 24", got.EndedAt)
    }
    if got.CheckoutAt == nil {
        t.Fatal("CheckoutAt not set")
    }
}

func TestDepartAfterMidnightPastWindow(t *testing.T) {
    // Once the final slot has passed, a next-day departure is a fully
    // consumed window: EXPIRED with the booked hours untouched.
    clk := at(22, 0)
    e, _ := newTestEngine(clk)
    r, err := e.Create(context.Background(), 1, 1, 21, 23)
    if err != nil {
        t.Fatalf("Create: %v", err)
    }

    clk.Set(time.Date(2025, time.March, 15, 1, 30, 0, 0, time.UTC))
    got, err := e.Depart(context.Background(), r.ID, 1)
    if err != nil {
        t.Fatalf("Depart: %v", err)
    }
    if got.Status != model.StatusExpired {
        t.Fatalf("status = %s, want EXPIRED", got.Status)
    }
    if got.EndedAt != 23 {
        t.Fatalf("EndedAt = %d, want 23 untouched", got.EndedAt)
    }
}

func TestExtendAcrossMidnight(t *testing.T) {
    // A 22-24 window closes at 00:59 next day.  At 00:45 the gate is open
    // (15 minutes remain), but any extension would pass hour 24, so the
    // request fails on the span, not on the gate.
    clk := at(23, 0)
    e, _ := newTestEngine(clk)
    r, err := e.Create(context.Background(), 1, 1, 22, 24)
    if err != nil {
        t.Fatalf("Create: %v", err)
    }

    clk.Set(time.Date(2025, time.March, 15, 0, 45, 0, 0, time.UTC))
    if _, err := e.Extend(context.Background(), r.ID, 1, 1); !errors.Is(err, ErrInvalidSpan) {
        t.Fatalf("Extend error = %v, want ErrInvalidSpan", err)
    }
}

func TestDaysBetweenIgnoresLocation(t *testing.T) {
    // Stored ref_date values come back as UTC midnights while the clock
    // works in the service timezone; only the calendar date may matter.
    seoul, err := time.LoadLocation("Asia/Seoul")
    if err != nil {
        t.Fatalf("load location: %v", err)
    }
    refDate := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
    cases := []struct {
        now  time.Time
        want int
    }{
        {time.Date(2025, time.March, 14, 23, 59, 0, 0, seoul), 0},
        {time.Date(2025, time.March, 15, 0, 0, 0, 0, seoul), 1},
        {time.Date(2025, time.March, 16, 8, 0, 0, 0, seoul), 2},
    }
    for _, tc := range cases {
        clk := clock.NewFixed(tc.now)
        if got := daysBetween(refDate, clk.RefDate()); got != tc.want {
            t.Errorf("daysBetween(%v, %v) = %d, want %d", refDate, tc.now, got, tc.want)
        }
    }
}
