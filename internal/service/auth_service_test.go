package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/doctor-booking/internal/kvstore"
	"github.com/iliyamo/doctor-booking/internal/repository"
	"github.com/iliyamo/doctor-booking/internal/utils"
)

func TestSignUp_ThenSignInRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	up, err := f.auth.SignUp(ctx, "Alice", "alice@x.com", "secret1")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if up.Role != "patient" || !strings.HasPrefix(up.ID, "user_") {
		t.Errorf("unexpected session %+v", up)
	}
	in, err := f.auth.SignIn(ctx, "alice@x.com", "secret1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if in.ID != up.ID || in.Name != up.Name || in.Email != up.Email {
		t.Errorf("SignIn = %+v, SignUp = %+v", in, up)
	}
	if raw, _ := f.kv.Raw(repository.KeySession); strings.Contains(raw, "secret1") || strings.Contains(raw, "password") {
		t.Errorf("session record leaks the secret: %s", raw)
	}
	if cur := f.auth.Current(); cur == nil || cur.ID != up.ID {
		t.Errorf("Current = %+v", cur)
	}
}

func TestSignUp_DuplicateEmailIgnoresCase(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	if _, err := f.auth.SignUp(ctx, "Alice", "alice@x.com", "secret1"); err != nil {
		t.Fatalf("first SignUp: %v", err)
	}
	before, _ := f.kv.Raw(repository.KeyUsers)
	if _, err := f.auth.SignUp(ctx, "Bob", "ALICE@x.com", "secret2"); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("second SignUp err = %v, want ErrDuplicateEmail", err)
	}
	if after, _ := f.kv.Raw(repository.KeyUsers); after != before {
		t.Error("ledger changed after a rejected sign-up")
	}
}

func TestSignUp_Validation(t *testing.T) {
	f := newFixture()
	cases := []struct{ name, email, secret, field string }{
		{"", "a@x.com", "s", "name"},
		{"  ", "a@x.com", "s", "name"},
		{"A", "", "s", "email"},
		{"A", "a@x.com", "", "password"},
	}
	for _, c := range cases {
		_, err := f.auth.SignUp(context.Background(), c.name, c.email, c.secret)
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != c.field {
			t.Errorf("SignUp(%q,%q,%q) err = %v, want field %s", c.name, c.email, c.secret, err, c.field)
		}
	}
}

func TestSignUp_IDsStayUniqueWithinOneMillisecond(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.auth.Now = fixedClock(epoch)

	a, err := f.auth.SignUp(ctx, "A", "a@x.com", "s")
	if err != nil {
		t.Fatal(err)
	}
	b, err := f.auth.SignUp(ctx, "B", "b@x.com", "s")
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Fatalf("ids collided: %s", a.ID)
	}
	if want := utils.TimestampID("user", epoch.UnixMilli()+1); b.ID != want {
		t.Errorf("second id = %s, want %s", b.ID, want)
	}
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	if _, err := f.auth.SignUp(ctx, "Alice", "alice@x.com", "secret1"); err != nil {
		t.Fatal(err)
	}
	if err := f.auth.SignOut(ctx); err != nil {
		t.Fatal(err)
	}

	for _, c := range []struct{ email, secret string }{
		{"alice@x.com", "SECRET1"},
		{"alice@x.com", ""},
		{"bob@x.com", "secret1"},
	} {
		if _, err := f.auth.SignIn(ctx, c.email, c.secret); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("SignIn(%q,%q) err = %v", c.email, c.secret, err)
		}
	}
	if f.auth.Current() != nil {
		t.Error("failed sign-in must not create a session")
	}
	if _, err := f.auth.SignIn(ctx, "ALICE@X.COM", "secret1"); err != nil {
		t.Errorf("email match should ignore case: %v", err)
	}
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	if _, err := f.auth.SignUp(ctx, "Alice", "alice@x.com", "secret1"); err != nil {
		t.Fatal(err)
	}
	users, _ := f.kv.Raw(repository.KeyUsers)

	if err := f.auth.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if f.auth.Current() != nil {
		t.Error("Current should be nil after SignOut")
	}
	if _, ok := f.kv.Raw(repository.KeySession); ok {
		t.Error("session key still stored")
	}
	if after, _ := f.kv.Raw(repository.KeyUsers); after != users {
		t.Error("SignOut touched the credential ledger")
	}
}

func TestSignOut_StoreFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	if _, err := f.auth.SignUp(ctx, "Alice", "alice@x.com", "secret1"); err != nil {
		t.Fatal(err)
	}
	f.kv.deleteFn = failOn(repository.KeySession)

	err := f.auth.SignOut(ctx)
	if !errors.Is(err, ErrSignOut) {
		t.Fatalf("err = %v, want ErrSignOut", err)
	}
	var se *kvstore.StoreError
	if !errors.As(err, &se) || se.Op != "delete" || !errors.Is(err, errBoom) {
		t.Errorf("store cause not reachable: %v", err)
	}
	if f.auth.Current() == nil {
		t.Error("session dropped although the store still holds it")
	}
}

func TestSignIn_StoreFailureSurfaces(t *testing.T) {
	f := newFixture()
	f.kv.getFn = failOn(repository.KeyUsers)
	_, err := f.auth.SignIn(context.Background(), "a@x.com", "s")
	var se *kvstore.StoreError
	if !errors.As(err, &se) || se.Key != repository.KeyUsers {
		t.Fatalf("err = %v, want StoreError for users", err)
	}
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	if s, err := f.auth.Bootstrap(ctx); err != nil || s != nil {
		t.Fatalf("Bootstrap on empty store = %v, %v", s, err)
	}
	up, err := f.auth.SignUp(ctx, "Alice", "alice@x.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}

	restarted := NewAuthService(repository.NewSessionRepo(f.kv), repository.NewUserRepo(f.kv))
	s, err := restarted.Bootstrap(ctx)
	if err != nil || s == nil {
		t.Fatalf("Bootstrap = %v, %v", s, err)
	}
	if s.ID != up.ID || s.Email != up.Email {
		t.Errorf("rehydrated %+v, want %+v", *s, up)
	}
	if cur := restarted.Current(); cur == nil || cur.ID != up.ID {
		t.Errorf("Current after Bootstrap = %+v", cur)
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	name := "Alice Cooper"
	if _, err := f.auth.UpdateProfile(ctx, ProfilePatch{Name: &name}); !errors.Is(err, ErrNoSession) {
		t.Fatalf("UpdateProfile without session err = %v", err)
	}

	up, err := f.auth.SignUp(ctx, "Alice", "alice@x.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.auth.UpdateProfile(ctx, ProfilePatch{Name: &name})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.Name != name || got.ID != up.ID || got.Email != up.Email {
		t.Errorf("UpdateProfile = %+v", got)
	}
	if cur := f.auth.Current(); cur == nil || cur.Name != name {
		t.Errorf("Current = %+v", cur)
	}

	creds, err := repository.NewUserRepo(f.kv).List(ctx)
	if err != nil || len(creds) != 1 || creds[0].Name != name || creds[0].Secret != "secret1" {
		t.Errorf("ledger after update = %+v, %v", creds, err)
	}
	sess, err := repository.NewSessionRepo(f.kv).Load(ctx)
	if err != nil || sess == nil || sess.Name != name {
		t.Errorf("stored session = %+v, %v", sess, err)
	}
}

func TestUpdateProfile_UserMissingFromLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	if _, err := f.auth.SignUp(ctx, "Alice", "alice@x.com", "secret1"); err != nil {
		t.Fatal(err)
	}
	if err := repository.NewUserRepo(f.kv).Save(ctx, nil); err != nil {
		t.Fatal(err)
	}
	name := "X"
	if _, err := f.auth.UpdateProfile(ctx, ProfilePatch{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestHashSecrets(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.auth.HashSecrets = true

	if _, err := f.auth.SignUp(ctx, "Alice", "alice@x.com", "secret1"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	creds, err := repository.NewUserRepo(f.kv).List(ctx)
	if err != nil || len(creds) != 1 {
		t.Fatal(creds, err)
	}
	if !creds[0].Hashed || !strings.HasPrefix(creds[0].Secret, "$2a$") {
		t.Errorf("stored secret is not marked as a bcrypt hash: %+v", creds[0])
	}
	if _, err := f.auth.SignIn(ctx, "alice@x.com", "secret1"); err != nil {
		t.Errorf("SignIn with hashed secret: %v", err)
	}
	if _, err := f.auth.SignIn(ctx, "alice@x.com", creds[0].Secret); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("the hash itself must not sign in: %v", err)
	}
}

func TestSignUp_CreatedAtFromClock(t *testing.T) {
	f := newFixture()
	f.auth.Now = fixedClock(epoch.Add(time.Hour))
	s, err := f.auth.SignUp(context.Background(), "A", "a@x.com", "s")
	if err != nil {
		t.Fatal(err)
	}
	if !s.CreatedAt.Equal(epoch.Add(time.Hour)) {
		t.Errorf("CreatedAt = %v", s.CreatedAt)
	}
}

func TestSignUp_HashShapedPlaintextSecret(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	secret := "$2a$10$" + strings.Repeat("a", 53)

	up, err := f.auth.SignUp(ctx, "Eve", "eve@x.com", secret)
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	creds, err := repository.NewUserRepo(f.kv).List(ctx)
	if err != nil || len(creds) != 1 || creds[0].Hashed || creds[0].Secret != secret {
		t.Fatalf("ledger = %+v, %v", creds, err)
	}
	if err := f.auth.SignOut(ctx); err != nil {
		t.Fatal(err)
	}
	in, err := f.auth.SignIn(ctx, "eve@x.com", secret)
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if in.ID != up.ID {
		t.Errorf("SignIn id = %s, want %s", in.ID, up.ID)
	}
}
