// Package memory provides persistent storage and retrieval of historical
// point-mapping outcomes.
//
// The package stores mapping patterns (normalized, instance-ID-stripped
// shapes of point names) keyed by pattern and device type. Each pattern
// tracks running confidence and quality averages, success/failure counts,
// and a bounded ring of recent examples. Similarity retrieval surfaces
// historical patterns close to a new point name, enabling confident
// mapping suggestions without calling the mapping engine.
//
// # Core Concepts
//
// A pattern collapses all point-name instances that share the same
// normalized shape and device type: "FCU_01.RoomTemp" and "FCU_02.RoomTemp"
// both normalize to "fcu_roomtemp" and feed the same pattern record.
//
// Similarity is Jaccard overlap over underscore-delimited token sets of
// normalized patterns, computed only within a device type. Results are
// cached per (pattern, device type) with a TTL.
//
// # Persistence
//
// The store is write-behind: the full pattern document is flushed to the
// configured kvstore.Store on every 10th newly created pattern and on
// Close. A crash between flushes loses only recent increments and never
// corrupts the store; a corrupt persisted document is logged and replaced
// by an empty store.
//
// # Usage
//
//	store, err := memory.NewStore(memory.Config{Persistence: kv}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	id, err := store.Record(ctx, memory.MappingResult{
//	    SourcePoint: "FCU_01.RoomTemp",
//	    TargetPoint: "FCU_raw_zone_air_temp",
//	    DeviceType:  "FCU",
//	    Confidence:  0.9,
//	    Success:     true,
//	})
//
//	best := store.BestMapping(ctx, "FCU_02.RoomTemp", "FCU", 0.5)
//	if best.Found {
//	    fmt.Println(best.EnosPoint, best.Score)
//	}
package memory
