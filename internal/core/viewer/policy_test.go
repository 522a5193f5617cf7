package viewer

import "testing"

func TestCanRenderPageWithoutAccess(t *testing.T) {
	const pageCount = 50

	for _, previewLimit := range []int{1, 2, 10, 30, 49} {
		for page := 1; page <= pageCount; page++ {
			decision := CanRenderPage(false, page, previewLimit)

			if e, g := page <= previewLimit, decision.Allow; e != g {
				t.Errorf("limit %d, page %d: expected allow '%v', got '%v'", previewLimit, page, e, g)
			}

			if !decision.Allow {
				if e, g := ReasonPreviewLimitExceeded, decision.Reason; e != g {
					t.Errorf("limit %d, page %d: expected reason '%v', got '%v'", previewLimit, page, e, g)
				}
			}
		}
	}
}

func TestCanRenderPageWithFullAccess(t *testing.T) {
	const pageCount = 50

	for _, previewLimit := range []int{1, 30, 100} {
		for page := 1; page <= pageCount; page++ {
			decision := CanRenderPage(true, page, previewLimit)
			if !decision.Allow {
				t.Errorf("limit %d, page %d: expected page to be allowed", previewLimit, page)
			}

			if e, g := ReasonFullAccess, decision.Reason; e != g {
				t.Errorf("expected reason '%v', got '%v'", e, g)
			}
		}
	}
}

func TestCanRenderPageIsNotALatch(t *testing.T) {
	if decision := CanRenderPage(false, 31, 30); decision.Allow {
		t.Fatalf("page 31 should be blocked")
	}

	if decision := CanRenderPage(false, 12, 30); !decision.Allow {
		t.Errorf("page 12 should be allowed after a block")
	}
}
