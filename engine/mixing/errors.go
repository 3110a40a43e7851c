// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package mixing

import "fmt"

// InvalidRegionTypeError reports a region whose concrete kind the
// receiving track cannot host.
type InvalidRegionTypeError struct {
	ExpectedType string
	ReceivedType string
}

func (e *InvalidRegionTypeError) Error() string {
	return fmt.Sprintf("invalid region type: expected %s, received %s",
		e.ExpectedType, e.ReceivedType)
}

// UnknownTrackError reports rendered data requested before the track
// rendered any chunk.
type UnknownTrackError struct {
	TrackID int
}

func (e *UnknownTrackError) Error() string {
	return fmt.Sprintf("track %d has no rendered data", e.TrackID)
}
