package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Domain field helpers

func Component(name string) Field {
	return String("component", name)
}

// Stage names a pipeline stage (ingest, build, temporal, adjacency, traverse, query, export).
func Stage(name string) Field {
	return String("stage", name)
}

func RunID(id string) Field {
	return String("run_id", id)
}

func Patient(id int) Field {
	return Int("patient", id)
}

func ARG(id int) Field {
	return Int("arg_id", id)
}

func MGE(id int) Field {
	return Int("mge_id", id)
}

// Timepoint takes the rendered form ("Donor", "PreFMT", "PostFMT_7").
func Timepoint(tp string) Field {
	return String("timepoint", tp)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}
