package main

// selectVideoFormat picks the video-only track to download: the first
// descriptor with height exactly PreferredVideoHeight, else the first
// descriptor with the maximum height. Provider order decides ties.
func selectVideoFormat(formats []StreamFormat) (StreamFormat, error) {
	var candidates []StreamFormat
	for _, f := range formats {
		if f.isVideoOnly() {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return StreamFormat{}, &NoStreamError{Kind: "video"}
	}

	for _, f := range candidates {
		if f.Height == PreferredVideoHeight {
			return f, nil
		}
	}

	best := candidates[0]
	for _, f := range candidates[1:] {
		if f.Height > best.Height {
			best = f
		}
	}
	return best, nil
}

// selectAudioFormat picks the audio-only track: the first descriptor
// with sample rate at or above preferredASR, else the first descriptor
// with the maximum sample rate.
func selectAudioFormat(formats []StreamFormat, preferredASR int) (StreamFormat, error) {
	var candidates []StreamFormat
	for _, f := range formats {
		if f.isAudioOnly() {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return StreamFormat{}, &NoStreamError{Kind: "audio"}
	}

	for _, f := range candidates {
		if f.ASR >= preferredASR {
			return f, nil
		}
	}

	best := candidates[0]
	for _, f := range candidates[1:] {
		if f.ASR > best.ASR {
			best = f
		}
	}
	return best, nil
}
