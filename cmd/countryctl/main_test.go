package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"countries/internal/country/handler"
	"countries/internal/country/models"
	"countries/internal/country/service"
	"countries/internal/country/store"
	"countries/internal/draft"
	"countries/internal/platform/logger"
)

type CLISuite struct {
	suite.Suite
	svc      *service.Service
	server   *httptest.Server
	draftDir string
	japan    *models.Country
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	svc, err := service.New(store.NewInMemory())
	s.Require().NoError(err)
	s.svc = svc

	r := chi.NewRouter()
	handler.New(svc, logger.Discard()).Register(r)
	s.server = httptest.NewServer(r)
	s.draftDir = s.T().TempDir()

	ctx := context.Background()
	for _, in := range []models.CountryInput{
		{Name: "Japan", Continent: "Asia", Capital: models.Ptr("Tokyo"), Population: models.Ptr(int64(125_700_000))},
		{Name: "China", Continent: "Asia", Capital: models.Ptr("Beijing")},
		{Name: "France", Continent: "Europe", Capital: models.Ptr("Paris")},
		{Name: "Brazil", Continent: "South America", Capital: models.Ptr("Brasília")},
	} {
		c, err := svc.Create(ctx, in)
		s.Require().NoError(err)
		if c.Name == "Japan" {
			s.japan = c
		}
	}
}

func (s *CLISuite) TearDownTest() {
	s.server.Close()
}

type result struct {
	out    string
	errOut string
	err    error
}

func (s *CLISuite) run(stdin string, args ...string) result {
	var out, errOut bytes.Buffer
	args = append(args, "--api-url", s.server.URL, "--draft-dir", s.draftDir)
	err := execute(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func (s *CLISuite) TestList() {
	s.Run("filters combine", func() {
		res := s.run("", "list", "--name", "AN", "--continent", "asia")
		s.Require().NoError(res.err, res.errOut)
		s.Contains(res.out, "Japan")
		s.Contains(res.out, "125.7M")
		s.NotContains(res.out, "China")
		s.Contains(res.out, "1 countries")
	})

	s.Run("no match", func() {
		res := s.run("", "list", "--name", "zzz")
		s.Require().NoError(res.err)
		s.Contains(res.out, "No countries found")
	})
}

func (s *CLISuite) TestSearch() {
	res := s.run("", "search", "continent", "america")
	s.Require().NoError(res.err, res.errOut)
	s.Contains(res.out, "Brazil")
	s.Contains(res.out, "1 countries")

	res = s.run("", "search", "capital", "Paris")
	s.Error(res.err)
	s.Contains(res.errOut, "expected name or continent")
}

func (s *CLISuite) TestShow() {
	res := s.run("", "show", strconv.FormatInt(s.japan.ID, 10))
	s.Require().NoError(res.err, res.errOut)
	s.Contains(res.out, "Tokyo")

	res = s.run("", "show", "France")
	s.Require().NoError(res.err, res.errOut)
	s.Contains(res.out, "Paris")
	s.Contains(res.out, "N/A")

	res = s.run("", "show", "999")
	s.Error(res.err)
	s.Contains(res.errOut, "[ERROR] Failed to load country: ")
	s.Equal(1, strings.Count(res.errOut, "[ERROR]"))
}

func (s *CLISuite) TestContinents() {
	res := s.run("", "continents")
	s.Require().NoError(res.err, res.errOut)
	s.Equal("Asia\nEurope\nSouth America\n", res.out)
}

func (s *CLISuite) TestAddCreatesAndClearsDraft() {
	res := s.run("Testland\nEurope\nTest City\n1000\n\n\n\n", "add")
	s.Require().NoError(res.err, res.errOut)
	s.Contains(res.out, "Test City")
	s.Contains(res.errOut, "[SUCCESS] Country created successfully!")

	created, err := s.svc.GetByName(context.Background(), "Testland")
	s.Require().NoError(err)
	s.Require().NotNil(created.Population)
	s.Equal(int64(1000), *created.Population)

	_, err = os.Stat(filepath.Join(s.draftDir, draft.Key+".json"))
	s.True(os.IsNotExist(err))
}

func (s *CLISuite) TestAddFailureKeepsDraftForNextRun() {
	res := s.run("Japan\nAsia\n\n\n\n\n\n", "add")
	s.Error(res.err)
	s.Contains(res.errOut, "already exists")
	s.Equal(1, strings.Count(res.errOut, "[ERROR]"))

	files, err := draft.NewFileStore(s.draftDir)
	s.Require().NoError(err)
	saved, err := files.Load(context.Background(), draft.Key)
	s.Require().NoError(err)
	s.Contains(string(saved), `"continent":"Asia"`)

	res = s.run("y\nNippon\n\n\n\n\n\n\n", "add")
	s.Require().NoError(res.err, res.errOut)
	s.Contains(res.out, `A saved draft for "Japan" was found. Load it?`)
	s.Contains(res.errOut, "[INFO] Draft loaded")

	created, err := s.svc.GetByName(context.Background(), "Nippon")
	s.Require().NoError(err)
	s.Equal(models.ContinentAsia, created.Continent)
}

func (s *CLISuite) TestAddRejectsBadNumberLocally() {
	res := s.run("Numberland\nAsia\n\nlots\n\n\n\n", "add")
	s.Error(res.err)
	s.Contains(res.errOut, "[ERROR] Failed to save country: Population must be a whole number")

	_, err := s.svc.GetByName(context.Background(), "Numberland")
	s.Error(err)
}

func (s *CLISuite) TestEdit() {
	id := strconv.FormatInt(s.japan.ID, 10)
	res := s.run("\n\nKyoto\n\n\n\n\n", "edit", id)
	s.Require().NoError(res.err, res.errOut)
	s.Contains(res.out, "Kyoto")

	updated, err := s.svc.Get(context.Background(), s.japan.ID)
	s.Require().NoError(err)
	s.Equal("Kyoto", *updated.Capital)
	s.Equal(int64(125_700_000), *updated.Population)
}

func (s *CLISuite) TestDelete() {
	id := strconv.FormatInt(s.japan.ID, 10)

	res := s.run("n\n", "delete", id)
	s.Require().NoError(res.err)
	s.Contains(res.out, "Cancelled")

	res = s.run("", "delete", id, "--yes")
	s.Require().NoError(res.err, res.errOut)
	s.Contains(res.errOut, "Country deleted successfully!")

	_, err := s.svc.Get(context.Background(), s.japan.ID)
	s.Error(err)

	res = s.run("", "delete", "abc", "--yes")
	s.Error(res.err)
	s.Contains(res.errOut, "[ERROR] invalid country ID: abc")
}

func (s *CLISuite) TestImport() {
	path := filepath.Join(s.T().TempDir(), "countries.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(`
- name: Kenya
  continent: Africa
  capital: Nairobi
  population: 54000000
- name: Peru
  continent: South America
`), 0o600))

	res := s.run("", "import", path)
	s.Require().NoError(res.err, res.errOut)
	s.Contains(res.out, "Kenya")
	s.Contains(res.out, "Peru")
	s.Contains(res.out, "2 countries")
	s.Contains(res.errOut, "Created 2 countries")
}

func (s *CLISuite) TestStats() {
	res := s.run("", "stats")
	s.Require().NoError(res.err, res.errOut)
	s.Contains(res.out, "Total countries: 4")
	s.Contains(res.out, "Continents: 3")
	s.Contains(res.out, "Data points: 28")
	s.Contains(res.out, "Asia: 2 (50.0%)")
}

func (s *CLISuite) TestExport() {
	s.Run("stdout", func() {
		res := s.run("", "export", "--out", "-")
		s.Require().NoError(res.err, res.errOut)
		s.True(strings.HasPrefix(res.out, "Continent,Country Count,Percentage\n"))
		s.Contains(res.out, `"Asia",2,50.0%`)
		s.Contains(res.errOut, "Statistics exported successfully!")
	})

	s.Run("file", func() {
		path := filepath.Join(s.T().TempDir(), "stats.csv")
		res := s.run("", "export", "--out", path)
		s.Require().NoError(res.err, res.errOut)
		s.Equal(path+"\n", res.out)

		data, err := os.ReadFile(path)
		s.Require().NoError(err)
		s.Contains(string(data), `"Europe",1,25.0%`)
	})
}

func (s *CLISuite) TestUnreachableServer() {
	var out, errOut bytes.Buffer
	err := execute(context.Background(), []string{"list", "--api-url", "http://127.0.0.1:1"},
		strings.NewReader(""), &out, &errOut)
	s.Error(err)
	s.Contains(errOut.String(), "[ERROR] Failed to load countries: ")
}
