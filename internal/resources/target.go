package resources

import (
	"encoding/base64"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/deskclock-shortcuts/internal/domain/shortcut"
)

// ProtoEncoder encodes intents as google.protobuf.Struct messages.
// Map entries are marshalled in sorted order, so equal intents always
// produce equal targets.
type ProtoEncoder struct{}

// Encode returns the base64 form of the deterministic protobuf encoding of intent.
func (ProtoEncoder) Encode(intent *shortcut.Intent) (string, error) {
	extras := make(map[string]*structpb.Value, len(intent.Extras))
	for k, v := range intent.Extras {
		extras[k] = structpb.NewStringValue(v)
	}

	message := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"action":    structpb.NewStringValue(intent.Action),
			"component": structpb.NewStringValue(intent.Component),
			"extras":    structpb.NewStructValue(&structpb.Struct{Fields: extras}),
		},
	}

	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(message)
	if err != nil {
		return "", fmt.Errorf("marshal intent: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeIntent reverses ProtoEncoder.Encode.
func DecodeIntent(target string) (*shortcut.Intent, error) {
	data, err := base64.RawURLEncoding.DecodeString(target)
	if err != nil {
		return nil, fmt.Errorf("decode target: %w", err)
	}

	var message structpb.Struct
	if err = proto.Unmarshal(data, &message); err != nil {
		return nil, fmt.Errorf("unmarshal intent: %w", err)
	}

	fields := message.GetFields()
	intent := &shortcut.Intent{
		Action:    fields["action"].GetStringValue(),
		Component: fields["component"].GetStringValue(),
		Extras:    make(map[string]string),
	}

	for k, v := range fields["extras"].GetStructValue().GetFields() {
		intent.Extras[k] = v.GetStringValue()
	}

	return intent, nil
}
