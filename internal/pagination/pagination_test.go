package pagination

import "testing"

func TestPageRequestDefaults(t *testing.T) {
	var req PageRequest
	req.Defaults()
	if req.Page != 1 || req.PageSize != 20 {
		t.Errorf("expected page 1 size 20, got page %d size %d", req.Page, req.PageSize)
	}
	if req.Offset() != 0 {
		t.Errorf("expected offset 0, got %d", req.Offset())
	}

	req = PageRequest{Page: 3, PageSize: 10}
	req.Defaults()
	if req.Offset() != 20 {
		t.Errorf("expected offset 20, got %d", req.Offset())
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name       string
		req        PageRequest
		wantData   []int
		wantPages  int
		wantPage   int
		wantLength int
	}{
		{name: "defaults_return_everything", req: PageRequest{}, wantData: []int{1, 2, 3, 4, 5}, wantPages: 1, wantPage: 1},
		{name: "first_page", req: PageRequest{Page: 1, PageSize: 2}, wantData: []int{1, 2}, wantPages: 3, wantPage: 1},
		{name: "last_partial_page", req: PageRequest{Page: 3, PageSize: 2}, wantData: []int{5}, wantPages: 3, wantPage: 3},
		{name: "past_the_end", req: PageRequest{Page: 9, PageSize: 2}, wantData: []int{}, wantPages: 3, wantPage: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Slice(items, tt.req)
			if resp.TotalItems != 5 {
				t.Errorf("expected 5 total items, got %d", resp.TotalItems)
			}
			if resp.TotalPages != tt.wantPages {
				t.Errorf("expected %d pages, got %d", tt.wantPages, resp.TotalPages)
			}
			if resp.Page != tt.wantPage {
				t.Errorf("expected page %d, got %d", tt.wantPage, resp.Page)
			}
			if len(resp.Data) != len(tt.wantData) {
				t.Fatalf("expected %v, got %v", tt.wantData, resp.Data)
			}
			for i := range tt.wantData {
				if resp.Data[i] != tt.wantData[i] {
					t.Errorf("expected %v, got %v", tt.wantData, resp.Data)
					break
				}
			}
		})
	}

	t.Run("nil_input", func(t *testing.T) {
		resp := Slice[int](nil, PageRequest{})
		if resp.Data == nil || len(resp.Data) != 0 {
			t.Errorf("expected empty non-nil data, got %#v", resp.Data)
		}
		if resp.TotalPages != 0 {
			t.Errorf("expected 0 pages, got %d", resp.TotalPages)
		}
	})
}
