package frames

// SampleFrames returns count evenly spaced frame indices across a scene
// range by linear interpolation, deterministic by construction. With
// includeEndpoints false the samples exclude the range end, which keeps
// probes off scene cuts where compression artifacts produce OCR noise.
func SampleFrames(r SceneRange, count int, includeEndpoints bool) []int {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []int{r.Start}
	}
	span := float64(r.End - r.Start)
	div := float64(count)
	if includeEndpoints {
		div = float64(count - 1)
	}
	samples := make([]int, 0, count)
	for i := 0; i < count; i++ {
		samples = append(samples, r.Start+int(float64(i)*span/div))
	}
	return samples
}

// ContainsAny reports whether any of the sampled probe points of r appears
// in the flagged set.
func ContainsAny(samples []int, flagged map[int]bool) bool {
	for _, s := range samples {
		if flagged[s] {
			return true
		}
	}
	return false
}
