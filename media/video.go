package media

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/cogentcore/reisen"
)

// VideoSource decodes frames from a video file on demand. Playback loops,
// and decoding is best effort: a failed read keeps the last good frame on
// screen rather than killing the session.
type VideoSource struct {
	media  *reisen.Media
	stream *reisen.VideoStream

	frame         *image.RGBA
	frameDuration time.Duration
	nextAt        time.Time

	log *slog.Logger
}

// OpenVideo opens the video at path and decodes its first frame.
func OpenVideo(path string, log *slog.Logger) (Source, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	m, err := reisen.NewMedia(path)
	if err != nil {
		return nil, fmt.Errorf("media: opening video: %w", err)
	}
	if len(m.VideoStreams()) == 0 {
		m.Close()
		return nil, fmt.Errorf("%w: %q", ErrNoVideoStream, path)
	}
	if err := m.OpenDecode(); err != nil {
		m.Close()
		return nil, fmt.Errorf("media: starting video decode: %w", err)
	}
	stream := m.VideoStreams()[0]
	if err := stream.Open(); err != nil {
		m.CloseDecode()
		m.Close()
		return nil, fmt.Errorf("media: opening video stream: %w", err)
	}

	fps, _ := stream.FrameRate()
	if fps <= 0 {
		fps = 30
	}
	s := &VideoSource{
		media:         m,
		stream:        stream,
		frameDuration: time.Duration(float64(time.Second) / float64(fps)),
		log:           log,
	}
	if !s.decodeNextFrame() {
		s.Close()
		return nil, fmt.Errorf("media: %q yielded no decodable frames", path)
	}
	return s, nil
}

func (s *VideoSource) Kind() Kind { return KindVideo }

func (s *VideoSource) Size() (int, int) {
	return s.stream.Width(), s.stream.Height()
}

func (s *VideoSource) Image() *image.RGBA { return s.frame }

func (s *VideoSource) Animated() bool { return true }

// Advance decodes the next frame once the current frame's duration has
// elapsed. A playback clock pegged to wall time would drop frames under a
// slow tick cadence; pegging to the tick keeps every frame visible
// instead, which suits a visualization better than A/V sync.
func (s *VideoSource) Advance(now time.Time) bool {
	if s.nextAt.IsZero() {
		s.nextAt = now.Add(s.frameDuration)
		return false
	}
	if now.Before(s.nextAt) {
		return false
	}
	s.nextAt = now.Add(s.frameDuration)
	return s.decodeNextFrame()
}

// decodeNextFrame reads packets until one video frame decodes. At end of
// stream it rewinds and keeps going; if the file cannot rewind the last
// frame stays.
func (s *VideoSource) decodeNextFrame() bool {
	rewound := false
	for {
		packet, gotPacket, err := s.media.ReadPacket()
		if err != nil {
			s.log.Warn("video packet read failed, keeping last frame", "err", err)
			return false
		}
		if !gotPacket {
			if rewound {
				return false
			}
			if err := s.stream.Rewind(0); err != nil {
				s.log.Warn("video rewind failed, freezing on last frame", "err", err)
				return false
			}
			rewound = true
			continue
		}
		if packet.Type() != reisen.StreamVideo {
			continue
		}
		st, ok := s.media.Streams()[packet.StreamIndex()].(*reisen.VideoStream)
		if !ok || st != s.stream {
			continue
		}
		frame, gotFrame, err := st.ReadVideoFrame()
		if err != nil {
			s.log.Warn("video frame decode failed, keeping last frame", "err", err)
			return false
		}
		if !gotFrame || frame == nil {
			continue
		}
		s.frame = frame.Image()
		return true
	}
}

func (s *VideoSource) Close() error {
	s.stream.Close()
	s.media.CloseDecode()
	s.media.Close()
	return nil
}
