package integration_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/eljojo/byteshard/internal/archive"
	"github.com/eljojo/byteshard/internal/crypto"
	"github.com/eljojo/byteshard/internal/shamir"
	"github.com/eljojo/byteshard/internal/sharefile"
)

// TestSealOpenPipeline runs the complete seal -> distribute -> open
// flow: archive a directory, encrypt it with a generated passphrase,
// split the passphrase, then recover from various share subsets.
func TestSealOpenPipeline(t *testing.T) {
	baseDir := t.TempDir()
	sourceDir := filepath.Join(baseDir, "vault")
	if err := os.MkdirAll(filepath.Join(sourceDir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}

	secretContent := "This is my super secret password: hunter2"
	if err := os.WriteFile(filepath.Join(sourceDir, "secrets.txt"), []byte(secretContent), 0644); err != nil {
		t.Fatalf("writing secret: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sourceDir, "nested", "keys.txt"), []byte("ssh-ed25519 AAAA..."), 0644); err != nil {
		t.Fatalf("writing nested file: %v", err)
	}

	holders := []string{"Alice", "Bob", "Carol", "David", "Eve"}
	n, k := len(holders), 3

	// Seal: archive, encrypt, split.
	var archiveBuf bytes.Buffer
	if _, err := archive.Pack(&archiveBuf, sourceDir); err != nil {
		t.Fatalf("archiving: %v", err)
	}

	raw, passphrase, err := crypto.NewPassphrase(crypto.DefaultPassphraseBytes)
	if err != nil {
		t.Fatalf("generating passphrase: %v", err)
	}

	var encryptedBuf bytes.Buffer
	if err := crypto.Encrypt(&encryptedBuf, bytes.NewReader(archiveBuf.Bytes()), passphrase); err != nil {
		t.Fatalf("encrypting: %v", err)
	}

	shares, err := shamir.Split(raw, n, k)
	if err != nil {
		t.Fatalf("splitting: %v", err)
	}

	files := make([]*sharefile.File, n)
	for i, share := range shares {
		files[i] = sharefile.New(n, k, holders[i], share)
	}

	// Immediate verification, same as seal does before writing anything.
	recovered, err := shamir.Recover(shares[:k])
	if err != nil {
		t.Fatalf("verification recover: %v", err)
	}
	if crypto.EncodePassphrase(recovered) != passphrase {
		t.Fatal("verification failed: passphrase mismatch")
	}

	// Open: recover from different share subsets, as if holders mailed
	// their files back.
	combinations := [][]int{
		{0, 1, 2},
		{2, 3, 4},
		{0, 2, 4},
		{1, 2, 3},
		{0, 1, 2, 3, 4},
	}

	for _, combo := range combinations {
		t.Run(fmt.Sprintf("shares%v", combo), func(t *testing.T) {
			recoveryShares := make([]shamir.Share, len(combo))
			for i, idx := range combo {
				encoded := files[idx].Encode()
				parsed, err := sharefile.Parse([]byte(encoded))
				if err != nil {
					t.Fatalf("parsing share %d: %v", idx, err)
				}
				if err := parsed.Verify(); err != nil {
					t.Fatalf("verifying share %d: %v", idx, err)
				}
				share, err := parsed.Share()
				if err != nil {
					t.Fatalf("decoding share %d: %v", idx, err)
				}
				recoveryShares[i] = share
			}

			recoveredRaw, err := shamir.Recover(recoveryShares)
			if err != nil {
				t.Fatalf("recovering: %v", err)
			}
			if crypto.EncodePassphrase(recoveredRaw) != passphrase {
				t.Fatal("recovered passphrase doesn't match")
			}

			var decryptedBuf bytes.Buffer
			if err := crypto.Decrypt(&decryptedBuf, bytes.NewReader(encryptedBuf.Bytes()), crypto.EncodePassphrase(recoveredRaw)); err != nil {
				t.Fatalf("decrypting: %v", err)
			}

			extractDir := t.TempDir()
			result, err := archive.Unpack(&decryptedBuf, extractDir)
			if err != nil {
				t.Fatalf("unpacking: %v", err)
			}

			recoveredSecret, err := os.ReadFile(filepath.Join(result.Path, "secrets.txt"))
			if err != nil {
				t.Fatalf("reading recovered secret: %v", err)
			}
			if string(recoveredSecret) != secretContent {
				t.Errorf("content mismatch: got %q, want %q", recoveredSecret, secretContent)
			}
			if _, err := os.Stat(filepath.Join(result.Path, "nested", "keys.txt")); err != nil {
				t.Errorf("nested file missing after recovery: %v", err)
			}
		})
	}
}

// TestInsufficientSharesFail verifies that fewer than threshold shares
// cannot reproduce the passphrase.
func TestInsufficientSharesFail(t *testing.T) {
	secret := []byte("correct horse battery staple")
	n, k := 5, 3

	shares, err := shamir.Split(secret, n, k)
	if err != nil {
		t.Fatal(err)
	}

	recovered, err := shamir.Recover(shares[:k-1])
	if err != nil {
		// Reconstruction from too few points may land outside the byte
		// range, which surfaces as an error. That counts as a failure
		// to recover, which is what we want.
		return
	}
	if bytes.Equal(recovered, secret) {
		t.Error("recovered the secret with fewer than threshold shares")
	}
}

// TestCorruptedShareDetected verifies the checksum catches a flipped
// byte in a share file.
func TestCorruptedShareDetected(t *testing.T) {
	shares, err := shamir.Split([]byte("payload"), 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	f := sharefile.New(3, 2, "Alice", shares[0])

	parsed, err := sharefile.Parse([]byte(f.Encode()))
	if err != nil {
		t.Fatal(err)
	}
	if err := parsed.Verify(); err != nil {
		t.Fatal(err)
	}

	// Swap in the same index's share from an independent split. It
	// parses fine but no longer matches the recorded checksum.
	other, err := shamir.Split([]byte("payload"), 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	corrupted := bytes.Replace([]byte(f.Encode()), []byte(shares[0].Encode()), []byte(other[0].Encode()), 1)
	parsed, err = sharefile.Parse(corrupted)
	if err != nil {
		t.Fatal(err)
	}
	if err := parsed.Verify(); err == nil {
		t.Error("corrupted share should fail verification")
	}
}

// TestWrongPassphrase verifies decryption fails outright rather than
// producing garbage.
func TestWrongPassphrase(t *testing.T) {
	data := []byte("secret data")

	var encrypted bytes.Buffer
	if err := crypto.Encrypt(&encrypted, bytes.NewReader(data), "correct-passphrase"); err != nil {
		t.Fatal(err)
	}

	var decrypted bytes.Buffer
	if err := crypto.Decrypt(&decrypted, bytes.NewReader(encrypted.Bytes()), "wrong-passphrase"); err == nil {
		t.Error("decryption should fail with wrong passphrase")
	}
}

// TestLargePayload seals and opens a payload around a megabyte.
func TestLargePayload(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large payload test in short mode")
	}

	baseDir := t.TempDir()
	sourceDir := filepath.Join(baseDir, "bulk")
	if err := os.MkdirAll(sourceDir, 0755); err != nil {
		t.Fatal(err)
	}

	largeData := bytes.Repeat([]byte("x"), 1024*1024)
	if err := os.WriteFile(filepath.Join(sourceDir, "large.bin"), largeData, 0644); err != nil {
		t.Fatal(err)
	}

	var archiveBuf bytes.Buffer
	if _, err := archive.Pack(&archiveBuf, sourceDir); err != nil {
		t.Fatal(err)
	}

	passphrase := "test-passphrase"
	var encrypted bytes.Buffer
	if err := crypto.Encrypt(&encrypted, &archiveBuf, passphrase); err != nil {
		t.Fatal(err)
	}

	var decrypted bytes.Buffer
	if err := crypto.Decrypt(&decrypted, &encrypted, passphrase); err != nil {
		t.Fatal(err)
	}

	extractDir := t.TempDir()
	result, err := archive.Unpack(&decrypted, extractDir)
	if err != nil {
		t.Fatal(err)
	}

	recovered, err := os.ReadFile(filepath.Join(result.Path, "large.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(recovered, largeData) {
		t.Error("large file content mismatch")
	}
}

// TestAllThresholdCombinations splits and recovers with every (n, k)
// from 2-of-2 up to 7-of-7, round-tripping each share through its file
// form.
func TestAllThresholdCombinations(t *testing.T) {
	secret := []byte("test-secret-for-threshold-combinations")

	for n := 2; n <= 7; n++ {
		for k := 2; k <= n; k++ {
			t.Run(fmt.Sprintf("%d-of-%d", k, n), func(t *testing.T) {
				shares, err := shamir.Split(secret, n, k)
				if err != nil {
					t.Fatalf("split: %v", err)
				}

				recoveryShares := make([]shamir.Share, k)
				for i := 0; i < k; i++ {
					f := sharefile.New(n, k, "", shares[i])
					parsed, err := sharefile.Parse([]byte(f.Encode()))
					if err != nil {
						t.Fatalf("parse share %d: %v", i, err)
					}
					if err := parsed.Verify(); err != nil {
						t.Fatalf("verify share %d: %v", i, err)
					}
					share, err := parsed.Share()
					if err != nil {
						t.Fatalf("decode share %d: %v", i, err)
					}
					recoveryShares[i] = share
				}

				recovered, err := shamir.Recover(recoveryShares)
				if err != nil {
					t.Fatalf("recover: %v", err)
				}
				if !bytes.Equal(recovered, secret) {
					t.Errorf("secret mismatch")
				}
			})
		}
	}
}
