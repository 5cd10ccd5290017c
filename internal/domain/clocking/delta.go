package clocking

// Delta returns the source events whose key does not occur in target, in
// source order. Duplicates within source are kept.
func Delta(target, source []ClockEvent) []ClockEvent {
	seen := make(map[Key]struct{}, len(target))
	for _, t := range target {
		seen[BuildKey(t)] = struct{}{}
	}

	result := make([]ClockEvent, 0, len(source))
	for _, s := range source {
		if _, ok := seen[BuildKey(s)]; ok {
			continue
		}
		result = append(result, s)
	}
	return result
}
