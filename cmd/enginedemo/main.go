// Command enginedemo wires up every core-substrate component — entity
// world, spatial grid, input pipeline, tracer, replay stream, config,
// metrics — into a headless frame loop, the way cmd/server/main.go
// wires the teacher's game engine, stream encoder, and Kick service.
// It never opens a window or renders a frame (out of scope, spec §1):
// its purpose is to exercise the engine end-to-end and expose its
// metrics/trace debug endpoints.
package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/silverweed/forge/alloc"
	"github.com/silverweed/forge/config"
	"github.com/silverweed/forge/ecs"
	"github.com/silverweed/forge/input"
	"github.com/silverweed/forge/input/device"
	"github.com/silverweed/forge/metrics"
	"github.com/silverweed/forge/replay"
	"github.com/silverweed/forge/spatial"
	"github.com/silverweed/forge/trace"
)

// position and velocity are demo components (the debug frame loop has
// no real game logic; they only exist to give the ECS and spatial grid
// something to move around).
type position struct{ X, Y float32 }
type velocity struct{ DX, DY float32 }

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	cfg := config.Load()
	log.Printf("engine config: tick_rate=%d temp_alloc_bytes=%d chunk=%gx%g entity_cap=%d tracer_cap=%d",
		cfg.Frame.TickRate, cfg.Frame.TempAllocatorBytes,
		cfg.Spatial.ChunkWidth, cfg.Spatial.ChunkHeight,
		cfg.Limits.InitialEntityCapacity, cfg.Tracer.InitialBufferCapacity)

	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)

	world := ecs.NewWorld(cfg.Limits.InitialEntityCapacity)
	ecs.Register[position](world.Store())
	ecs.Register[velocity](world.Store())

	grid := spatial.NewGrid()

	frameArena := alloc.WithCapacity(cfg.Frame.TempAllocatorBytes)

	bindings := demoBindings()
	pipeline := input.NewPipeline(bindings)

	tracer := trace.NewTracer(trace.MainThread)

	replayPath := os.Getenv("FORGE_REPLAY_OUT")
	if replayPath == "" {
		replayPath = "demo.replay"
	}
	replayFile, err := os.Create(replayPath)
	if err != nil {
		log.Fatalf("opening replay output %s: %v", replayPath, err)
	}
	defer replayFile.Close()
	replayWriter, err := replay.NewWriter(replayFile, float32(cfg.Replay.MsPerFrame), 1)
	if err != nil {
		log.Fatalf("writing replay header: %v", err)
	}

	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://127.0.0.1:*", "http://localhost:*"},
		AllowedMethods: []string{"GET"},
	}))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Get("/debug/trace", debugTraceHandler(tracer))

	debugAddr := cfg.Server.ListenAddr
	go func() {
		log.Printf("debug server on http://%s (/metrics, /debug/trace)", debugAddr)
		if err := http.ListenAndServe(debugAddr, mux); err != nil {
			log.Printf("debug server stopped: %v", err)
		}
	}()

	spaceKey, _ := device.StringToKey("Space")
	spawnEntity(world, grid, 0, 0)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	frameDur := time.Second / time.Duration(cfg.Frame.TickRate)
	ticker := time.NewTicker(frameDur)
	defer ticker.Stop()

	var frameNumber uint32
	log.Println("engine running, press Ctrl+C to stop")

	for {
		select {
		case <-quit:
			log.Println("shutting down")
			return
		case <-ticker.C:
			tracer.StartFrame()
			frameScope := trace.Trace(tracer, "frame", trace.HashTag("frame"))

			raw := input.NewRawState()
			raw.RawEvents = append(raw.RawEvents, input.RawEvent{Kind: input.EventKeyPressed, Key: spaceKey})
			pipeline.Update(raw, true)

			updateScope := trace.Trace(tracer, "update_entities", trace.HashTag("update_entities"))
			runUpdatePass(world)
			updateScope.Close()

			spatialScope := trace.Trace(tracer, "spatial_refresh", trace.HashTag("spatial_refresh"))
			n := grid.NChunks()
			nearby := queryNearby(frameArena, grid, 0, 0)
			spatialScope.Close()
			rec.SetSpatialChunkCount(n)
			rec.SetLiveEntities(len(world.Entities()))

			point := replay.NewDataPoint(frameNumber, raw.RawEvents, [8]replay.JoystickData{}, 0)
			if err := replayWriter.WritePoint(point); err != nil {
				log.Printf("replay: dropping frame %d: %v", frameNumber, err)
				rec.IncReplayDropped()
			}

			world.DestroyPending()
			frameNumber++

			if frameNumber%uint32(cfg.Frame.TickRate) == 0 {
				log.Printf("frame %d: %d handles within query radius of origin", frameNumber, nearby)
			}
			frameArena.DeallocAll()

			frameScope.Close()
			rec.ObserveTracerFrame(trace.TotalTracedTime(trace.Collate(tracer.SavedTraces())))
		}
	}
}

func demoBindings() *input.Bindings {
	b := input.NewBindings()
	spaceKey, _ := device.StringToKey("Space")
	b.Action[input.Action{Source: input.KeySource(spaceKey)}] = []string{"jump"}
	return b
}

func spawnEntity(w *ecs.World, g *spatial.Grid, x, y float32) ecs.Entity {
	e := w.NewEntity()
	ecs.Add(w.Store(), e, position{X: x, Y: y})
	ecs.Add(w.Store(), e, velocity{DX: 1, DY: 0})
	g.Add(spatial.Handle(e), x, y, 1, 1)
	return e
}

// runUpdatePass advances every entity's position by its velocity.
// Positions and velocities are zipped by dense-array index rather than
// looked up per entity, since this demo adds both components to every
// entity in the same call and never removes one independently — a real
// game system would instead iterate entity handles and Get each
// component by entity.
func runUpdatePass(w *ecs.World) {
	positions := ecs.IterMut[position](w.Store())
	velocities := ecs.IterMut[velocity](w.Store())
	for i := range positions {
		if i >= len(velocities) {
			break
		}
		positions[i].X += velocities[i].DX
		positions[i].Y += velocities[i].DY
	}
}

// nearbyBuf is the fixed-size scratch a single frame's neighbor query
// writes into, carved out of the per-frame temp arena (C2) rather than
// the heap: it only needs to live until frameArena.DeallocAll() at the
// end of the tick.
type nearbyBuf struct {
	handles [32]spatial.Handle
}

// queryNearby runs one broad-phase neighbor query through the frame's
// temp arena, the short-lived-allocation path spec.md assigns to C2,
// and returns how many handles it found.
func queryNearby(arena *alloc.Temp, g *spatial.Grid, cx, cy float32) int {
	ref := alloc.Alloc(arena, nearbyBuf{})
	buf := ref.Get()
	found := g.Query(cx, cy, 50, 50, buf.handles[:0])
	return len(found)
}

func debugTraceHandler(t *trace.Tracer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collated := trace.Collate(t.SavedTraces())
		forest := trace.BuildTraceTrees(collated)
		trace.SortTraceTrees(forest)

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, tree := range forest {
			writeTraceTree(w, tree, 0)
		}
	}
}

func writeTraceTree(w http.ResponseWriter, tree *trace.TraceTree, depth int) {
	for i := 0; i < depth; i++ {
		w.Write([]byte("  "))
	}
	w.Write([]byte(tree.Node.Info.Tag))
	w.Write([]byte("\n"))
	for _, c := range tree.Children {
		writeTraceTree(w, c, depth+1)
	}
}
