package auth

import (
	"net/http"

	apperrors "github.com/darkkaiser/hms-push/pkg/errors"
	"github.com/darkkaiser/hms-push/pkg/transport"
	"github.com/tidwall/gjson"
)

// errorDescriptions 인증 서버의 오류 코드별 설명
var errorDescriptions = map[int64]string{
	1101: "invalid request",
	1102: "missing required param",
	1104: "unsupported response type",
	1105: "unsupported grant type",
	1107: "access denied",
	1201: "invalid ticket",
	1202: "invalid sso_st",
}

// parseTokenResponse 인증 서버의 응답을 해석합니다.
//
// 오류 코드는 숫자 또는 문자열로 올 수 있어 gjson으로 읽습니다. 알려진 오류 코드는 HTTP 상태와 관계없이
// apperrors.Unauthorized로, 그 밖의 200 이외 응답은 apperrors.ServiceFailed로 변환합니다.
func parseTokenResponse(resp *transport.Response) (accessToken string, expiresIn int64, err error) {
	body := gjson.ParseBytes(resp.Body)

	if code := body.Get("error"); code.Exists() {
		if desc, ok := errorDescriptions[code.Int()]; ok {
			return "", 0, apperrors.Newf(apperrors.Unauthorized, "액세스 토큰 발급에 실패했습니다: %s (error=%d, description=%s)", desc, code.Int(), body.Get("error_description").String())
		}
	}

	if resp.StatusCode != http.StatusOK {
		return "", 0, apperrors.Wrap(transport.CheckResponseStatus(resp), apperrors.ServiceFailed, "인증 서버가 액세스 토큰 발급 요청을 거부했습니다")
	}

	if !gjson.ValidBytes(resp.Body) {
		return "", 0, apperrors.Newf(apperrors.ParsingFailed, "인증 서버 응답을 해석하지 못했습니다 (URL: %s)", resp.URL)
	}

	accessToken = body.Get("access_token").String()
	if accessToken == "" {
		return "", 0, apperrors.New(apperrors.Unauthorized, "인증 서버가 빈 액세스 토큰을 반환했습니다")
	}

	return accessToken, body.Get("expires_in").Int(), nil
}
