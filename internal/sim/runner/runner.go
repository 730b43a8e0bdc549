// Package runner implements the coordination loop for one region owner:
// waiting for assignment, draining commands, advancing the physics world,
// migrating connected components across region boundaries, maintaining
// the watch list, and persisting per-batch state before acknowledging.
package runner

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"physgrid.dev/internal/persistence/kvs"
	"physgrid.dev/internal/protocol"
	"physgrid.dev/internal/sim/cluster"
	"physgrid.dev/internal/sim/engine"
	"physgrid.dev/internal/sim/object"
	"physgrid.dev/internal/sim/tuning"
	"physgrid.dev/internal/sim/watch"
	"physgrid.dev/internal/transport/bus"
)

// TickTrace is the wall-clock breakdown of one coordination-loop tick.
type TickTrace struct {
	StepID     uint64  `json:"step_id"`
	StepsRun   int     `json:"steps_run"`
	Commands   float64 `json:"commands_s"`
	Stepping   float64 `json:"stepping_s"`
	Components float64 `json:"components_s"`
	Watch      float64 `json:"watch_s"`
	Persist    float64 `json:"persist_s"`
	Ack        float64 `json:"ack_s"`
}

// TraceSink receives one TickTrace per active tick.
type TraceSink interface {
	WriteTrace(TickTrace) error
}

type Config struct {
	ID     uuid.UUID
	Tuning tuning.Tuning
	Logger *log.Logger
	Trace  TraceSink
}

type Runner struct {
	id    uuid.UUID
	tune  tuning.Tuning
	state *State
	store kvs.Store
	bus   bus.Bus
	log   *log.Logger
	trace TraceSink

	cmds       <-chan []byte
	regionCmds <-chan []byte
	buffered   [][]byte

	stepsToRun     uint32
	watchIteration uint64

	analyzer cluster.Analyzer
	decider  cluster.Decider
}

func New(cfg Config, w engine.World, store kvs.Store, b bus.Bus) (*Runner, error) {
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stdout, "[runner] ", log.LstdFlags|log.Lmicroseconds)
	}

	r := &Runner{
		id:       cfg.ID,
		tune:     cfg.Tuning,
		state:    NewState(w),
		store:    store,
		bus:      b,
		log:      cfg.Logger,
		trace:    cfg.Trace,
		analyzer: cluster.UnionFind{},
		decider:  cluster.CentroidDecider{},
	}

	if b != nil {
		ch, err := b.Subscribe(bus.RunnerTopic(r.id))
		if err != nil {
			return nil, err
		}
		r.cmds = ch
	}
	return r, nil
}

func (r *Runner) ID() uuid.UUID { return r.id }

// State exposes the simulation state for inspection; the loop owns it.
func (r *Runner) State() *State { return r.state }

// Run drives the runner until the context is canceled. It registers with
// the partitioner, blocks until a region is assigned (buffering any other
// commands, replayed in arrival order right after assignment), then ticks
// forever: there is no terminal state short of process exit.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.register(); err != nil {
		return err
	}
	if err := r.awaitAssignment(ctx); err != nil {
		return err
	}
	for _, raw := range r.buffered {
		r.handleRaw(raw)
	}
	r.buffered = nil

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		start := time.Now()
		var tr TickTrace
		stepsRun, active := r.tick(&tr)
		if active && r.trace != nil {
			if err := r.trace.WriteTrace(tr); err != nil {
				r.log.Printf("trace: %v", err)
			}
		}

		// Pace to real time: if the tick finished in under half the
		// nominal duration of the steps just run, sleep off the shortfall.
		// Overruns are tolerated by not sleeping; we never fast-forward.
		elapsed := time.Since(start).Seconds()
		limit := float64(max(stepsRun, 1)) * r.tune.Timestep()
		if elapsed < limit/2 {
			time.Sleep(time.Duration((limit - elapsed) * float64(time.Second)))
		}
	}
}

// register announces availability before listening for steps, so the
// partitioner never assigns a region to a runner that can't hear it.
func (r *Runner) register() error {
	if r.store != nil {
		if err := r.store.PutRunner(r.id); err != nil {
			return err
		}
	}
	r.publish(bus.PartitionerTopic, protocol.RegisterRunnerMsg{
		Type:   protocol.TypeRegisterRunner,
		Runner: r.id,
	})
	return nil
}

// awaitAssignment blocks until ASSIGN_REGION arrives. Anything else
// received meanwhile is buffered, not discarded.
func (r *Runner) awaitAssignment(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw := <-r.cmds:
			cmd, err := protocol.DecodeCommand(raw)
			if err != nil {
				r.log.Printf("skipping command: %v", err)
				continue
			}
			if m, ok := cmd.(*protocol.AssignRegionMsg); ok {
				r.applyAssignRegion(m)
				return nil
			}
			r.buffered = append(r.buffered, raw)
		}
	}
}

// tick runs one loop iteration. Returns how many physics steps ran and
// whether the post-step phase executed (it only does when a batch was
// pending at drain time).
func (r *Runner) tick(tr *TickTrace) (stepsRun int, active bool) {
	t0 := time.Now()
	r.drainCommands()
	tr.Commands = time.Since(t0).Seconds()

	if r.stepsToRun == 0 {
		return 0, false
	}

	var assignments []cluster.Assignment
	if r.state.Running {
		t0 = time.Now()
		for r.stepsToRun > 0 {
			r.state.World.Step()
			r.state.StepID++
			r.stepsToRun--
			stepsRun++
			r.applyAnimations()
		}
		tr.Stepping = time.Since(t0).Seconds()

		t0 = time.Now()
		comps := r.analyzer.Components(r.state.ownedHandles(), r.state.ownedEdges())
		assignments = r.decider.Assignments(r.state.World, r.state.Region, comps)
		tr.Components = time.Since(t0).Seconds()
	} else {
		r.stepsToRun = 0
	}

	t0 = time.Now()
	warmSet := r.collectWarmSet()
	watchSet := object.WatchSet{
		Objects: watch.ComputeOutbound(r.state.World, r.state.Region.Aabb(), r.state.Watched, r.state.Body2UUID, r.state.StepID),
	}
	tr.Watch = time.Since(t0).Seconds()

	r.applyAndSendAssignments(assignments)

	if r.stepsToRun == 0 {
		t0 = time.Now()
		r.persistBatch(warmSet, watchSet)
		tr.Persist = time.Since(t0).Seconds()

		t0 = time.Now()
		r.publish(bus.PartitionerTopic, protocol.AckStepsMsg{
			Type:    protocol.TypeAckSteps,
			Origin:  bus.RunnerTopic(r.id),
			Stopped: !r.state.Running,
		})
		tr.Ack = time.Since(t0).Seconds()
	}

	tr.StepID = r.state.StepID
	tr.StepsRun = stepsRun
	return stepsRun, true
}

// drainCommands applies everything currently queued without ever
// blocking. Draining stops early when a RUN_STEPS is applied.
func (r *Runner) drainCommands() {
	for {
		select {
		case raw := <-r.cmds:
			if r.handleRaw(raw) {
				return
			}
		case raw := <-r.regionCmds:
			if r.handleRaw(raw) {
				return
			}
		default:
			return
		}
	}
}

// applyAnimations retargets kinematic bodies from their motion tracks at
// the current physical time. Bodies without a track, and non-kinematic
// bodies, are left untouched.
func (r *Runner) applyAnimations() {
	t := float64(r.state.StepID) * r.tune.Timestep()
	for h, anim := range r.state.Animations {
		if anim.Linear == nil {
			continue
		}
		if r.state.World.BodyType(h) != object.Kinematic {
			continue
		}
		r.state.World.SetNextKinematicTarget(h, anim.Linear.Eval(t))
	}
}

// collectWarmSet snapshots all owned, non-watched bodies. Watched bodies
// belong to another region's bookkeeping and must not be double-reported.
func (r *Runner) collectWarmSet() object.WarmSet {
	set := object.WarmSet{Timestamp: r.state.StepID}
	for _, h := range r.state.ownedHandles() {
		id, ok := r.state.Body2UUID[h]
		if !ok {
			continue
		}
		warm, ok := r.state.World.Warm(h, r.state.StepID)
		if !ok {
			continue
		}
		set.Objects = append(set.Objects, object.PositionRecord{
			UUID:      id,
			Timestamp: warm.Timestamp,
			Position:  warm.Position,
		})
	}
	return set
}

// applyAndSendAssignments removes each migrating component locally and
// announces it to the destination region's topic, carrying cold+warm data
// and the joints internal to the component.
func (r *Runner) applyAndSendAssignments(assignments []cluster.Assignment) {
	for _, as := range assignments {
		members := make(map[engine.Handle]bool, len(as.Bodies))
		for _, h := range as.Bodies {
			members[h] = true
		}

		msg := protocol.AssignIslandMsg{Type: protocol.TypeAssignIsland}
		for _, h := range as.Bodies {
			id, ok := r.state.Body2UUID[h]
			if !ok {
				continue
			}
			warm, ok := r.state.World.Warm(h, r.state.StepID)
			if !ok {
				continue
			}
			msg.Bodies = append(msg.Bodies, protocol.BodyAssignment{
				UUID: id,
				Cold: r.state.ColdCache[id],
				Warm: warm,
			})
		}
		for _, j := range r.state.World.Joints() {
			if members[j.A] && members[j.B] {
				msg.ImpulseJoints = append(msg.ImpulseJoints, protocol.JointAssignment{
					Body1: r.state.Body2UUID[j.A],
					Body2: r.state.Body2UUID[j.B],
					Joint: j.Joint,
				})
			}
		}

		for _, h := range as.Bodies {
			r.state.removeBody(h)
		}
		r.publish(bus.RegionTopic(as.Target.Key()), msg)
	}
}

// persistBatch writes the warm snapshot and watch advertisement for the
// completed batch, retrying with backoff. A batch lost to a persistent
// store failure stalls downstream readers but does not corrupt anything:
// the next successful write carries the latest step.
func (r *Runner) persistBatch(warm object.WarmSet, watchSet object.WatchSet) {
	if r.store == nil || !r.state.Assigned {
		return
	}
	key := r.state.Region.Key()
	backoff := time.Duration(r.tune.PersistBackoffMs) * time.Millisecond

	write := func(what string, f func() error) {
		var err error
		for attempt := 0; attempt <= r.tune.PersistRetries; attempt++ {
			if err = f(); err == nil {
				return
			}
			time.Sleep(backoff * time.Duration(attempt+1))
		}
		r.log.Printf("%s: %s %s: %v", protocol.ErrPersist, what, key, err)
	}

	write("warm set", func() error { return r.store.PutWarmSet(key, warm) })
	write("watch set", func() error { return r.store.PutWatchSet(key, watchSet) })
}

func (r *Runner) publish(topic string, msg any) {
	if r.bus == nil {
		return
	}
	b, err := protocol.Encode(msg)
	if err != nil {
		r.log.Printf("encode for %s: %v", topic, err)
		return
	}
	if err := r.bus.Publish(topic, b); err != nil {
		// Fire-and-forget from the loop's perspective; the cadence must
		// not block on the transport.
		r.log.Printf("publish %s: %v", topic, err)
	}
}
