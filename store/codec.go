package store

import (
	"encoding/json"
	"errors"
)

// ErrVersionMismatch is returned when a payload was written with another schema or codec version.
var ErrVersionMismatch = errors.New("record version mismatch")

// EncodeRun serialises a run record.
func EncodeRun(r RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

// DecodeRun parses a run record and checks its versions.
func DecodeRun(data []byte) (RunRecord, error) {
	var run RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return RunRecord{}, err
	}
	return run, nil
}

// EncodeGeneration serialises a generation record.
func EncodeGeneration(g GenerationRecord) ([]byte, error) {
	return json.Marshal(g)
}

// DecodeGeneration parses a generation record and checks its versions.
func DecodeGeneration(data []byte) (GenerationRecord, error) {
	var gen GenerationRecord
	if err := json.Unmarshal(data, &gen); err != nil {
		return GenerationRecord{}, err
	}
	if err := checkVersion(gen.VersionedRecord); err != nil {
		return GenerationRecord{}, err
	}
	return gen, nil
}

func checkVersion(v VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
