package shortcut

import (
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/deskclock-shortcuts/internal/domain/shortcut"
	"github.com/oshokin/deskclock-shortcuts/internal/stopwatch"
)

// Listing is the answer of ListShortcuts.
type Listing struct {
	// Status is the synchronization status of the controller.
	Status string
	// Shortcuts is the published set in rank order.
	Shortcuts []domain.Descriptor
}

// SnapshotToProto converts a stopwatch snapshot to a Struct.
func SnapshotToProto(s stopwatch.Snapshot) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"running":    structpb.NewBoolValue(s.Running),
			"elapsed_ms": structpb.NewNumberValue(float64(s.Elapsed.Milliseconds())),
			"laps":       structpb.NewNumberValue(float64(s.Laps)),
		},
	}
}

// SnapshotFromProto reverses SnapshotToProto.
func SnapshotFromProto(message *structpb.Struct) stopwatch.Snapshot {
	fields := message.GetFields()

	return stopwatch.Snapshot{
		Running: fields["running"].GetBoolValue(),
		Elapsed: millis(fields["elapsed_ms"]),
		Laps:    int(fields["laps"].GetNumberValue()),
	}
}

// LapToProto converts a lap to a Struct.
func LapToProto(lap stopwatch.Lap) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"number":      structpb.NewNumberValue(float64(lap.Number)),
			"lap_time_ms": structpb.NewNumberValue(float64(lap.LapTime.Milliseconds())),
			"total_ms":    structpb.NewNumberValue(float64(lap.Total.Milliseconds())),
		},
	}
}

// LapFromProto reverses LapToProto.
func LapFromProto(message *structpb.Struct) stopwatch.Lap {
	fields := message.GetFields()

	return stopwatch.Lap{
		Number:  int(fields["number"].GetNumberValue()),
		LapTime: millis(fields["lap_time_ms"]),
		Total:   millis(fields["total_ms"]),
	}
}

// ListingToProto converts a listing to a Struct.
func ListingToProto(listing Listing) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(listing.Shortcuts))

	for _, d := range listing.Shortcuts {
		values = append(values, structpb.NewStructValue(&structpb.Struct{
			Fields: map[string]*structpb.Value{
				"id":          structpb.NewStringValue(d.ID),
				"category":    structpb.NewNumberValue(float64(d.Category)),
				"rank":        structpb.NewNumberValue(float64(d.Rank)),
				"short_label": structpb.NewStringValue(d.ShortLabel),
				"long_label":  structpb.NewStringValue(d.LongLabel),
				"target":      structpb.NewStringValue(d.Target),
				"icon":        structpb.NewStringValue(d.Icon),
				"activity":    structpb.NewStringValue(d.Activity),
			},
		}))
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"status":    structpb.NewStringValue(listing.Status),
			"shortcuts": structpb.NewListValue(&structpb.ListValue{Values: values}),
		},
	}
}

// ListingFromProto reverses ListingToProto.
func ListingFromProto(message *structpb.Struct) Listing {
	fields := message.GetFields()
	values := fields["shortcuts"].GetListValue().GetValues()

	listing := Listing{
		Status:    fields["status"].GetStringValue(),
		Shortcuts: make([]domain.Descriptor, 0, len(values)),
	}

	for _, v := range values {
		item := v.GetStructValue().GetFields()
		listing.Shortcuts = append(listing.Shortcuts, domain.Descriptor{
			ID:         item["id"].GetStringValue(),
			Category:   domain.Category(int(item["category"].GetNumberValue())),
			Rank:       int(item["rank"].GetNumberValue()),
			ShortLabel: item["short_label"].GetStringValue(),
			LongLabel:  item["long_label"].GetStringValue(),
			Target:     item["target"].GetStringValue(),
			Icon:       item["icon"].GetStringValue(),
			Activity:   item["activity"].GetStringValue(),
		})
	}

	return listing
}

func millis(v *structpb.Value) time.Duration {
	return time.Duration(v.GetNumberValue()) * time.Millisecond
}
