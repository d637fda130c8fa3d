package tracking

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.FrameInterval <= 0 {
		t.Error("FrameInterval must be positive")
	}
	if cfg.DecayInterval <= 0 {
		t.Error("DecayInterval must be positive")
	}
	if cfg.Damping <= 0 || cfg.Damping >= 1 {
		t.Errorf("Damping = %.2f, want in (0, 1)", cfg.Damping)
	}
	if cfg.Spring <= 0 {
		t.Errorf("Spring = %.2f, want positive", cfg.Spring)
	}
	if cfg.ScoreSmoothing < 0 || cfg.ScoreSmoothing > 1 {
		t.Errorf("ScoreSmoothing = %.2f, want in [0, 1]", cfg.ScoreSmoothing)
	}
	if cfg.ForgetThreshold >= 1 {
		t.Errorf("ForgetThreshold = %.2f, want < 1", cfg.ForgetThreshold)
	}
}

func TestSmoothConfig(t *testing.T) {
	def := DefaultConfig()
	cfg := SmoothConfig()

	if cfg.Spring >= def.Spring {
		t.Errorf("smooth Spring = %.2f, want < default %.2f", cfg.Spring, def.Spring)
	}
	if cfg.Damping >= def.Damping {
		t.Errorf("smooth Damping = %.2f, want < default %.2f", cfg.Damping, def.Damping)
	}
}

func TestJigglyConfig(t *testing.T) {
	def := DefaultConfig()
	cfg := JigglyConfig()

	if cfg.Spring <= def.Spring {
		t.Errorf("jiggly Spring = %.2f, want > default %.2f", cfg.Spring, def.Spring)
	}
	if cfg.Damping <= def.Damping {
		t.Errorf("jiggly Damping = %.2f, want > default %.2f", cfg.Damping, def.Damping)
	}
	if cfg.Damping >= 1 {
		t.Errorf("jiggly Damping = %.2f, must stay below 1 or the iris never settles", cfg.Damping)
	}
	if cfg.FrameInterval >= def.FrameInterval {
		t.Error("jiggly config should run at a faster frame rate")
	}
}
