package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

type recordingHook struct {
	positions []*HookPos
}

func (h *recordingHook) Func(ctx HookCtx) {
	h.positions = append(h.positions, ctx.Pos)
}

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	mockEvent := func(t VTimeInSec, h Handler) *MockEvent {
		evt := NewMockEvent(mockCtrl)
		evt.EXPECT().Time().Return(t).AnyTimes()
		evt.EXPECT().Handler().Return(h).AnyTimes()

		return evt
	}

	It("should handle events in time order", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		evt1 := mockEvent(4.0, handler1)
		evt2 := mockEvent(2.0, handler2)
		evt3 := mockEvent(3.0, handler1)
		evt4 := mockEvent(5.0, handler1)

		handleEvt2 := handler2.EXPECT().Handle(evt2).DoAndReturn(
			func(Event) error {
				engine.Schedule(evt3)
				engine.Schedule(evt4)

				return nil
			})
		handleEvt3 := handler1.EXPECT().Handle(evt3).Return(nil).
			After(handleEvt2)
		handleEvt1 := handler1.EXPECT().Handle(evt1).Return(nil).
			After(handleEvt3)
		handler1.EXPECT().Handle(evt4).Return(nil).After(handleEvt1)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		Expect(engine.Run()).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(5.0)))
	})

	It("should handle same-time events in scheduling order", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := mockEvent(1.0, handler)
		evt2 := mockEvent(1.0, handler)

		first := handler.EXPECT().Handle(evt1).Return(nil)
		handler.EXPECT().Handle(evt2).Return(nil).After(first)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		Expect(engine.Run()).To(Succeed())
	})

	It("should invoke hooks around each event", func() {
		hook := &recordingHook{}
		engine.AcceptHook(hook)

		handler := NewMockHandler(mockCtrl)
		evt := mockEvent(1.0, handler)
		handler.EXPECT().Handle(evt).Return(nil)

		engine.Schedule(evt)
		Expect(engine.Run()).To(Succeed())

		Expect(hook.positions).To(Equal(
			[]*HookPos{HookPosBeforeEvent, HookPosAfterEvent}))
	})

	It("should panic when scheduling an event in the past", func() {
		handler := NewMockHandler(mockCtrl)
		evt := mockEvent(3.0, handler)
		handler.EXPECT().Handle(evt).Return(nil)

		engine.Schedule(evt)
		Expect(engine.Run()).To(Succeed())

		Expect(func() {
			engine.Schedule(mockEvent(1.0, handler))
		}).To(Panic())
	})

	It("should stop at the first handler error", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := mockEvent(1.0, handler)
		evt2 := mockEvent(2.0, handler)
		handler.EXPECT().Handle(evt1).Return(errors.New("broken"))

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		Expect(engine.Run()).To(MatchError("broken"))
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(1.0)))
	})

	It("should hold events while paused", func() {
		handler := NewMockHandler(mockCtrl)
		evt := mockEvent(1.0, handler)
		handler.EXPECT().Handle(evt).Return(nil)
		engine.Schedule(evt)

		engine.Pause()
		engine.Pause()

		done := make(chan error)
		go func() { done <- engine.Run() }()

		Consistently(done, "50ms").ShouldNot(Receive())

		engine.Continue()
		engine.Continue()

		Eventually(done).Should(Receive(BeNil()))
	})

	It("should inspect a paused engine right away", func() {
		engine.Pause()
		defer engine.Continue()

		called := false
		engine.Inspect(func() { called = true })

		Expect(called).To(BeTrue())
	})

	It("should inspect only between events", func() {
		handler := NewMockHandler(mockCtrl)
		evt := mockEvent(1.0, handler)

		entered := make(chan struct{})
		release := make(chan struct{})
		handled := false
		handler.EXPECT().Handle(evt).DoAndReturn(func(Event) error {
			close(entered)
			<-release
			handled = true

			return nil
		})
		engine.Schedule(evt)

		go func() { _ = engine.Run() }()
		Eventually(entered).Should(BeClosed())

		seen := make(chan bool)
		go engine.Inspect(func() { seen <- handled })

		Consistently(seen, "50ms").ShouldNot(Receive())

		close(release)

		Eventually(seen).Should(Receive(BeTrue()))
	})

	It("should reject duplicated hooks", func() {
		hook := &recordingHook{}
		engine.AcceptHook(hook)

		Expect(engine.NumHooks()).To(Equal(1))
		Expect(func() { engine.AcceptHook(hook) }).To(Panic())
	})
})
