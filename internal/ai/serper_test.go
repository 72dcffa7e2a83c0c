package ai

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestExtractFromResponseKnowledgeGraphString(t *testing.T) {
	var resp serperResponse
	err := json.Unmarshal([]byte(`{
		"knowledgeGraph": {"address": "Jl. Raya Cibadak No. 88, Sukabumi, Jawa Barat"}
	}`), &resp)
	if err != nil {
		t.Fatal(err)
	}
	got := extractFromResponse(&resp)
	if got != "Jl. Raya Cibadak No. 88, Sukabumi, Jawa Barat" {
		t.Errorf("got %q", got)
	}
}

func TestExtractFromResponseKnowledgeGraphObject(t *testing.T) {
	var resp serperResponse
	err := json.Unmarshal([]byte(`{
		"knowledgeGraph": {"address": {
			"streetAddress": "Jl. Industri Raya No. 5",
			"addressLocality": "Bekasi",
			"addressRegion": "Jawa Barat",
			"postalCode": "17530"
		}}
	}`), &resp)
	if err != nil {
		t.Fatal(err)
	}
	got := extractFromResponse(&resp)
	if !strings.HasPrefix(got, "Jl. Industri Raya No. 5, Bekasi") {
		t.Errorf("got %q", got)
	}
}

func TestExtractFromResponsePlacesFallback(t *testing.T) {
	var resp serperResponse
	err := json.Unmarshal([]byte(`{
		"places": [{"address": "Kawasan Industri Jababeka Blok C No. 12, Cikarang"}]
	}`), &resp)
	if err != nil {
		t.Fatal(err)
	}
	if got := extractFromResponse(&resp); !strings.Contains(got, "Jababeka") {
		t.Errorf("got %q", got)
	}
}

func TestExtractFromResponseOrganicSnippet(t *testing.T) {
	var resp serperResponse
	err := json.Unmarshal([]byte(`{
		"organic": [{"snippet": "Kantor pusat berlokasi di Jl. Gatot Subroto Kav 21 Jakarta Selatan dan melayani seluruh Indonesia"}]
	}`), &resp)
	if err != nil {
		t.Fatal(err)
	}
	if got := extractFromResponse(&resp); !strings.HasPrefix(got, "Jl. Gatot Subroto") {
		t.Errorf("got %q", got)
	}
}

func TestExtractFromResponseNothingUsable(t *testing.T) {
	var resp serperResponse
	err := json.Unmarshal([]byte(`{
		"organic": [{"snippet": "Profil perusahaan dan sejarah singkat."}]
	}`), &resp)
	if err != nil {
		t.Fatal(err)
	}
	if got := extractFromResponse(&resp); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestCleanAddress(t *testing.T) {
	got := cleanAddress("  Jl.  Mawar \n No. 3, ")
	if got != "Jl. Mawar No. 3" {
		t.Errorf("got %q", got)
	}
}
