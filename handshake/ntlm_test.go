package handshake

import (
	"bytes"
	"context"
	"testing"
)

func TestNewNTLMProviderValidation(t *testing.T) {
	valid := Credentials{Username: "alice", Password: "hunter2"}

	if _, err := NewNTLMProvider(Credentials{Password: "x"}, "svc"); err == nil {
		t.Error("missing username should be rejected")
	}
	if _, err := NewNTLMProvider(Credentials{Username: "alice"}, "svc"); err == nil {
		t.Error("missing password should be rejected")
	}
	if _, err := NewNTLMProvider(valid, ""); err == nil {
		t.Error("missing target name should be rejected")
	}
	if _, err := NewNTLMProvider(valid, "svc"); err != nil {
		t.Errorf("valid credentials rejected: %v", err)
	}
}

func TestNTLMFirstLegIsNegotiate(t *testing.T) {
	p, err := NewNTLMProvider(Credentials{Username: "alice", Password: "hunter2", Domain: "EXAMPLE"}, "svc")
	if err != nil {
		t.Fatal(err)
	}

	out, cont, err := p.Step(context.Background(), nil)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !cont {
		t.Error("negotiate leg must continue")
	}
	if p.Complete() {
		t.Error("provider must not be complete after the first leg")
	}
	if !bytes.HasPrefix(out, []byte("NTLMSSP\x00")) {
		t.Errorf("first token is not an NTLMSSP message: % x", out[:min(len(out), 8)])
	}
	if p.PeerName() != "" {
		t.Error("PeerName must be empty before completion")
	}
}

func TestNTLMRejectsTokenBeforeNegotiate(t *testing.T) {
	p, err := NewNTLMProvider(Credentials{Username: "alice", Password: "hunter2"}, "svc")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := p.Step(context.Background(), []byte("unexpected")); err == nil {
		t.Error("token before the negotiate leg should be rejected")
	}
}

func TestNTLMRejectsEmptyChallenge(t *testing.T) {
	p, err := NewNTLMProvider(Credentials{Username: "alice", Password: "hunter2"}, "svc")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := p.Step(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if _, _, err := p.Step(context.Background(), nil); err == nil {
		t.Error("empty challenge should be rejected")
	}
}

func TestNTLMRejectsMalformedChallenge(t *testing.T) {
	p, err := NewNTLMProvider(Credentials{Username: "alice@example.com", Password: "hunter2"}, "svc")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := p.Step(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if _, _, err := p.Step(context.Background(), []byte("not a challenge")); err == nil {
		t.Error("malformed challenge should be rejected")
	}
	if p.Complete() {
		t.Error("provider must not report complete after a failed challenge")
	}
}
