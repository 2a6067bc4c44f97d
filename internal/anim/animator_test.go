package anim_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fbmandel/internal/anim"
	"github.com/san-kum/fbmandel/internal/view"
)

type views []view.State

func (v views) Len() int { return len(v) }

func (v views) At(i int) (view.State, bool) {
	if i < 0 || i >= len(v) {
		return view.State{}, false
	}
	return v[i], true
}

const colourScale = 18

var _ = Describe("Animator", func() {
	var (
		start  time.Time
		shared *view.Shared
		cfg    anim.Config
		target view.State
	)

	BeforeEach(func() {
		start = time.Unix(1_700_000_000, 0)
		shared = view.NewShared(view.Default(), colourScale)
		cfg = anim.DefaultConfig()
		cfg.IdleTimeout = 10 * time.Second
		target = view.State{Scaling: 0.0005, XOffset: 0.83, YOffset: -0.04, ColourOffset: 5}
	})

	idle := func(ticks int) time.Time {
		return start.Add(cfg.IdleTimeout + time.Duration(ticks)*anim.DefaultTick)
	}

	It("does nothing without saved views", func() {
		a := anim.New(cfg, shared, views{}, start)
		Expect(a.Tick(idle(1))).To(BeFalse())
		Expect(shared.Snapshot()).To(Equal(view.Default()))
	})

	It("waits for the idle timeout", func() {
		a := anim.New(cfg, shared, views{target}, start)
		Expect(a.Tick(start.Add(cfg.IdleTimeout - time.Millisecond))).To(BeFalse())
		Expect(a.Phase()).To(Equal(anim.Armed))
		Expect(shared.TakeRedraw()).To(BeFalse())
	})

	It("starts with the first saved view and raises redraw", func() {
		a := anim.New(cfg, shared, views{target, view.Default()}, start)
		Expect(a.Tick(idle(0))).To(BeTrue())
		Expect(a.Phase()).To(Equal(anim.Animating))
		Expect(a.Target()).To(Equal(0))
		Expect(shared.TakeRedraw()).To(BeTrue())
	})

	It("strictly decreases the scaling gap until the snap", func() {
		a := anim.New(cfg, shared, views{target}, start)
		gap := math.Abs(shared.Snapshot().Scaling - target.Scaling)
		ticks := 0
		for gap >= cfg.ScaleSnap && ticks < 10000 {
			Expect(a.Tick(idle(ticks))).To(BeTrue())
			next := math.Abs(shared.Snapshot().Scaling - target.Scaling)
			if next != 0 {
				Expect(next).To(BeNumerically("<", gap))
			}
			gap = next
			ticks++
		}
		Expect(gap).To(BeNumerically("<", cfg.ScaleSnap))
	})

	It("leaves colour alone while geometry converges", func() {
		a := anim.New(cfg, shared, views{target}, start)
		for i := 0; i < 20; i++ {
			a.Tick(idle(i))
			Expect(shared.Snapshot().ColourOffset).To(Equal(0))
		}
	})

	DescribeTable("colour converges along the shorter direction",
		func(from, to int) {
			home := target
			home.ColourOffset = from
			shared.Set(home)
			goal := target
			goal.ColourOffset = to
			a := anim.New(cfg, shared, views{goal}, start)

			d := ((to-from)%colourScale + colourScale) % colourScale
			want := min(d, colourScale-d)

			changes := 0
			prev := shared.Snapshot().ColourOffset
			for i := 0; i < 100 && a.Phase() != anim.Armed || i == 0; i++ {
				a.Tick(idle(i))
				cur := shared.Snapshot().ColourOffset
				if cur != prev {
					Expect(anim.ColourStep(prev, to, colourScale)).NotTo(BeZero())
					Expect(cur).To(Equal((prev + anim.ColourStep(prev, to, colourScale) + colourScale) % colourScale))
					changes++
				}
				prev = cur
			}
			Expect(changes).To(Equal(want))
			Expect(shared.Snapshot()).To(Equal(goal))
			Expect(a.Phase()).To(Equal(anim.Armed))
		},
		Entry("forward", 0, 5),
		Entry("backward across zero", 2, 16),
		Entry("tie goes forward", 0, 9),
		Entry("already there", 7, 7),
	)

	It("snaps geometry exactly onto the target", func() {
		near := target
		near.XOffset += cfg.OffsetSnap / 2
		near.ColourOffset = target.ColourOffset
		shared.Set(near)
		a := anim.New(cfg, shared, views{target}, start)

		a.Tick(idle(0))
		Expect(shared.Snapshot()).To(Equal(target))
	})

	It("re-arms after reaching a view and moves on to the next one", func() {
		other := view.State{Scaling: 0.0004, XOffset: -0.211, YOffset: 0.048, ColourOffset: 5}
		shared.Set(target)
		a := anim.New(cfg, shared, views{target, other}, start)

		now := idle(0)
		Expect(a.Tick(now)).To(BeTrue())
		Expect(a.Phase()).To(Equal(anim.Armed))
		Expect(a.Target()).To(Equal(0))

		Expect(a.Tick(now.Add(anim.DefaultTick))).To(BeFalse())

		later := now.Add(cfg.IdleTimeout)
		Expect(a.Tick(later)).To(BeTrue())
		Expect(a.Target()).To(Equal(1))
	})

	It("falls back to default snap thresholds and still settles", func() {
		cfg.ScaleSnap = 0
		cfg.OffsetSnap = -1
		a := anim.New(cfg, shared, views{target}, start)

		settled := false
		for i := 0; i < 10000 && !settled; i++ {
			a.Tick(idle(i))
			settled = a.Phase() == anim.Armed
		}
		Expect(settled).To(BeTrue())
		Expect(shared.Snapshot()).To(Equal(target))
	})

	It("stops on interaction", func() {
		a := anim.New(cfg, shared, views{target}, start)
		a.Tick(idle(0))
		Expect(a.Phase()).To(Equal(anim.Animating))

		touched := idle(1)
		a.Interact(touched)
		Expect(a.Phase()).To(Equal(anim.Armed))

		before := shared.Snapshot()
		Expect(a.Tick(touched.Add(time.Second))).To(BeFalse())
		Expect(shared.Snapshot()).To(Equal(before))
	})
})

var _ = Describe("ColourStep", func() {
	DescribeTable("direction",
		func(cur, want, step int) {
			Expect(anim.ColourStep(cur, want, colourScale)).To(Equal(step))
		},
		Entry("equal", 3, 3, 0),
		Entry("forward short", 3, 4, 1),
		Entry("backward short", 4, 3, -1),
		Entry("wrap forward", 17, 0, 1),
		Entry("wrap backward", 0, 17, -1),
		Entry("half way ties forward", 0, 9, 1),
	)
})
