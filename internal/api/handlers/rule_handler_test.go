package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/welldanyogia/webrana-mailarchive/internal/api/response"
	apperrors "github.com/welldanyogia/webrana-mailarchive/internal/errors"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/tests/mocks"
)

// RuleHandlerTestSuite is the test suite for RuleHandler
type RuleHandlerTestSuite struct {
	suite.Suite
	echo      *echo.Echo
	handler   *RuleHandler
	mockRules *mocks.MockRuleRepository
}

func (s *RuleHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.mockRules = new(mocks.MockRuleRepository)
	s.handler = NewRuleHandler(s.mockRules)
}

func (s *RuleHandlerTestSuite) TearDownTest() {
	s.mockRules.AssertExpectations(s.T())
}

func TestRuleHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(RuleHandlerTestSuite))
}

func (s *RuleHandlerTestSuite) createContext(method, path, reqBody string, id string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c, rec
}

func (s *RuleHandlerTestSuite) errorBody(rec *httptest.ResponseRecorder) response.ErrorResponse {
	var resp response.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// ==================== Address Rule Tests ====================

func (s *RuleHandlerTestSuite) TestCreateAddress_Created() {
	// Arrange
	c, rec := s.createContext(http.MethodPost, "/api/rules/addresses", `{"address":"boss@example.com","priority":1}`, "")
	s.mockRules.On("CreateAddressRule", mock.Anything, "boss@example.com", 1).
		Return(&models.AddressRule{ID: 4, Address: "boss@example.com", Priority: 1}, nil)

	// Act
	err := s.handler.CreateAddress(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusCreated, rec.Code)
	s.Contains(rec.Body.String(), `"id":4`)
}

func (s *RuleHandlerTestSuite) TestCreateAddress_DuplicateIsConflict() {
	// Arrange
	c, rec := s.createContext(http.MethodPost, "/api/rules/addresses", `{"address":"boss@example.com","priority":1}`, "")
	s.mockRules.On("CreateAddressRule", mock.Anything, "boss@example.com", 1).
		Return(nil, fmt.Errorf("address boss@example.com already has a rule: %w", apperrors.ErrDuplicateEntry))

	// Act
	err := s.handler.CreateAddress(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusConflict, rec.Code)
	resp := s.errorBody(rec)
	s.Equal(apperrors.CodeDuplicateEntry, resp.Code)
	s.Contains(resp.Error, "already has a rule")
}

func (s *RuleHandlerTestSuite) TestCreateAddress_InvalidPriority() {
	c, rec := s.createContext(http.MethodPost, "/api/rules/addresses", `{"address":"boss@example.com","priority":0}`, "")
	s.mockRules.On("CreateAddressRule", mock.Anything, "boss@example.com", 0).
		Return(nil, fmt.Errorf("priority must be 1-3: %w", apperrors.ErrInvalidInput))

	s.NoError(s.handler.CreateAddress(c))

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RuleHandlerTestSuite) TestCreateAddress_MalformedBody() {
	c, rec := s.createContext(http.MethodPost, "/api/rules/addresses", `{"priority":"high"`, "")

	s.NoError(s.handler.CreateAddress(c))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("invalid request body", s.errorBody(rec).Error)
}

func (s *RuleHandlerTestSuite) TestListAddresses_EmptyIsArray() {
	c, rec := s.createContext(http.MethodGet, "/api/rules/addresses", "", "")
	s.mockRules.On("ListAddressRules", mock.Anything).Return(nil, nil)

	s.NoError(s.handler.ListAddresses(c))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"data":[]`)
}

func (s *RuleHandlerTestSuite) TestUpdateAddress() {
	c, rec := s.createContext(http.MethodPatch, "/api/rules/addresses/4", `{"priority":2}`, "4")
	s.mockRules.On("UpdateAddressRule", mock.Anything, uint(4), 2).Return(nil)

	s.NoError(s.handler.UpdateAddress(c))

	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *RuleHandlerTestSuite) TestDeleteAddress_NotFound() {
	c, rec := s.createContext(http.MethodDelete, "/api/rules/addresses/4", "", "4")
	s.mockRules.On("DeleteAddressRule", mock.Anything, uint(4)).
		Return(fmt.Errorf("rule 4: %w", apperrors.ErrNotFound))

	s.NoError(s.handler.DeleteAddress(c))

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *RuleHandlerTestSuite) TestDeleteAddress_InvalidID() {
	c, rec := s.createContext(http.MethodDelete, "/api/rules/addresses/0", "", "0")

	s.NoError(s.handler.DeleteAddress(c))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("invalid id", s.errorBody(rec).Error)
}

// ==================== Dictionary Rule Tests ====================

func (s *RuleHandlerTestSuite) TestCreateWord_DuplicateIsConflict() {
	c, rec := s.createContext(http.MethodPost, "/api/rules/dictionaries", `{"word":"invoice","priority":2}`, "")
	s.mockRules.On("CreateWordRule", mock.Anything, "invoice", 2).
		Return(nil, fmt.Errorf(`word "invoice" already has a rule: %w`, apperrors.ErrDuplicateEntry))

	s.NoError(s.handler.CreateWord(c))

	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(apperrors.CodeDuplicateEntry, s.errorBody(rec).Code)
}

func (s *RuleHandlerTestSuite) TestCreateWord_Created() {
	c, rec := s.createContext(http.MethodPost, "/api/rules/dictionaries", `{"word":"請求書","priority":1}`, "")
	s.mockRules.On("CreateWordRule", mock.Anything, "請求書", 1).
		Return(&models.PriorityWord{ID: 1, Word: "請求書", Priority: 1}, nil)

	s.NoError(s.handler.CreateWord(c))

	s.Equal(http.StatusCreated, rec.Code)
	s.Contains(rec.Body.String(), `"word":"請求書"`)
}

func (s *RuleHandlerTestSuite) TestListWords_StoreFailureIsGeneric() {
	c, rec := s.createContext(http.MethodGet, "/api/rules/dictionaries", "", "")
	s.mockRules.On("ListWordRules", mock.Anything).Return(nil, errors.New("database is locked"))

	s.NoError(s.handler.ListWords(c))

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Equal(apperrors.ErrInternal.Error(), s.errorBody(rec).Error)
}

func (s *RuleHandlerTestSuite) TestUpdateWord_InvalidPriority() {
	c, rec := s.createContext(http.MethodPatch, "/api/rules/dictionaries/2", `{"priority":5}`, "2")
	s.mockRules.On("UpdateWordRule", mock.Anything, uint(2), 5).
		Return(fmt.Errorf("priority must be 1-3: %w", apperrors.ErrInvalidInput))

	s.NoError(s.handler.UpdateWord(c))

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RuleHandlerTestSuite) TestDeleteWord() {
	c, rec := s.createContext(http.MethodDelete, "/api/rules/dictionaries/2", "", "2")
	s.mockRules.On("DeleteWordRule", mock.Anything, uint(2)).Return(nil)

	s.NoError(s.handler.DeleteWord(c))

	s.Equal(http.StatusNoContent, rec.Code)
}
