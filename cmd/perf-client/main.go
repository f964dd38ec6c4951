package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/time/rate"

	gachav1 "github.com/YJlang/gacha/internal/api/gachav1"
	"github.com/YJlang/gacha/internal/auth"
	"github.com/YJlang/gacha/internal/config"
)

// PerfResult gathers aggregated metrics for the test run.
// Atomic counters are used to avoid lock‑contention on hot paths.
// LatencySum & P95Latency are in nanoseconds.
type PerfResult struct {
	TotalRequests int64
	SuccessCount  int64
	LimitedCount  int64
	ThrottleCount int64
	ErrorCount    int64
	LatencySum    int64
	P95Latency    int64
}

const (
	fixedWorkers   = 50
	fixedRPSTarget = 700
	fixedDuration  = 30 * time.Second
	defaultTimeout = 30 * time.Second
	fixedUsers     = 5000
	baseURL        = "http://localhost:8080"
)

func main() {
	ctx := context.Background()

	// Tokens are signed with the same secret the server verifies
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	rps := fixedRPSTarget
	duration := fixedDuration
	workers := fixedWorkers
	users := fixedUsers

	// ─── HTTP Client & Transport ─────────────────────────────────
	transport := &http.Transport{
		MaxIdleConns:        workers * 4,
		MaxIdleConnsPerHost: workers * 4,
		IdleConnTimeout:     90 * time.Second,
	}
	httpClient := &http.Client{
		Transport: transport,
		Timeout:   defaultTimeout,
	}

	tokens := make([]string, users)
	for i := range tokens {
		tokens[i], err = auth.IssueToken(cfg.Auth, int64(i+1), 2*duration)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to issue token: %v\n", err)
			os.Exit(1)
		}
	}

	client := gachav1.NewGachaServiceClient(httpClient, baseURL)

	// ─── Banner ──────────────────────────────────────────────────
	fmt.Println("==========================================")
	fmt.Println("🚀 Go 고성능 부하 테스트 클라이언트 (draw)")
	fmt.Println("==========================================")
	fmt.Printf("사용자 수  : %d\n", users)
	fmt.Printf("일일 한도  : %d\n", cfg.Draw.DailyLimit)
	fmt.Printf("RPS   : %d\n", rps)
	fmt.Printf("테스트 시간: %v\n", duration)
	fmt.Println("==========================================")

	// ─── Rate limiter & context ─────────────────────────────────
	burst := rps / workers
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	runCtx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	var result PerfResult
	var wg sync.WaitGroup

	// latencyChan collects latencies for P95 estimation.
	latencyChan := make(chan time.Duration, 4096)
	done := make(chan struct{})
	go func() {
		trackP95(latencyChan, &result)
		close(done)
	}()

	// ─── Workers ────────────────────────────────────────────────
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if err := limiter.Wait(runCtx); err != nil { // context cancelled → exit
					return
				}
				doRequest(client, tokens[rand.IntN(users)], &result, latencyChan)
			}
		}()
	}

	start := time.Now()
	<-runCtx.Done() // wait for duration

	// ─── Cleanup ────────────────────────────────────────────────
	wg.Wait()
	close(latencyChan)
	<-done

	totalDur := time.Since(start)

	// ─── Report ─────────────────────────────────────────────────
	fmt.Println("==========================================")
	fmt.Println("📊 성능 테스트 결과")
	fmt.Println("==========================================")
	fmt.Printf("테스트 시간        : %.2f초\n", totalDur.Seconds())
	fmt.Printf("총 요청 수         : %d\n", result.TotalRequests)
	fmt.Printf("성공한 뽑기        : %d\n", result.SuccessCount)
	fmt.Printf("한도 초과          : %d\n", result.LimitedCount)
	fmt.Printf("속도 제한          : %d\n", result.ThrottleCount)
	fmt.Printf("실패한 요청        : %d\n", result.ErrorCount)

	handled := result.SuccessCount + result.LimitedCount
	actualRPS := float64(handled) / totalDur.Seconds()

	var avgLatency time.Duration
	if handled > 0 {
		avgLatency = time.Duration(result.LatencySum / handled)
	}

	fmt.Printf("실제 RPS           : %.2f\n", actualRPS)
	fmt.Printf("평균 레이턴시      : %v\n", avgLatency)
	fmt.Printf("P95 레이턴시       : %v\n", time.Duration(atomic.LoadInt64(&result.P95Latency)))
	fmt.Println("==========================================")

	// ─── Data Consistency Check ─────────────────────────────────
	fmt.Println("==========================================")
	fmt.Println("🔍 데이터 정합성 검증")
	fmt.Println("==========================================")

	if err := verifyDataConsistency(client, tokens, cfg.Draw.DailyLimit, result.SuccessCount); err != nil {
		fmt.Printf("❌ 정합성 검증 실패: %v\n", err)
	} else {
		fmt.Println("✅ 데이터 정합성 확인 완료")
	}
	fmt.Println("==========================================")
}

// doRequest performs a single Draw RPC and collects metrics.
func doRequest(client *gachav1.GachaServiceClient, token string, result *PerfResult, latencyChan chan<- time.Duration) {
	// Use independent context to avoid cancellation when test ends
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	req := connect.NewRequest(&gachav1.DrawRequest{})
	req.Header().Set("Authorization", "Bearer "+token)

	start := time.Now()
	atomic.AddInt64(&result.TotalRequests, 1)

	_, err := client.Draw(ctx, req)
	latency := time.Since(start)

	switch {
	case err == nil:
		atomic.AddInt64(&result.SuccessCount, 1)
	case connect.CodeOf(err) == connect.CodeResourceExhausted:
		// A refused draw is a correct, fully handled response
		atomic.AddInt64(&result.LimitedCount, 1)
	case connect.CodeOf(err) == connect.CodeUnavailable:
		atomic.AddInt64(&result.ThrottleCount, 1)
		return
	default:
		atomic.AddInt64(&result.ErrorCount, 1)
		return
	}

	atomic.AddInt64(&result.LatencySum, latency.Nanoseconds())
	select {
	case latencyChan <- latency:
	default:
	}
}

// trackP95 maintains a best‑effort rolling P95 latency estimation.
func trackP95(latencies <-chan time.Duration, result *PerfResult) {
	const size = 1000
	buf := make([]int64, 0, size)

	for lat := range latencies {
		if len(buf) < size {
			buf = append(buf, lat.Nanoseconds())
		} else {
			// Replace random element (simple reservoir sampling)
			buf[rand.IntN(size)] = lat.Nanoseconds()
		}

		// Update P95 periodically
		if len(buf) >= 100 && len(buf)%100 == 0 {
			copyBuf := make([]int64, len(buf))
			copy(copyBuf, buf)
			sort.Slice(copyBuf, func(i, j int) bool { return copyBuf[i] < copyBuf[j] })
			p95Index := int(float64(len(copyBuf)) * 0.95)
			if p95Index >= len(copyBuf) {
				p95Index = len(copyBuf) - 1
			}
			atomic.StoreInt64(&result.P95Latency, copyBuf[p95Index])
		}
	}
}

// verifyDataConsistency checks that no user exceeded the daily limit and that
// the server recorded exactly the draws the test saw succeed
func verifyDataConsistency(client *gachav1.GachaServiceClient, tokens []string, limit int, expectedDraws int64) error {
	var recorded int64
	var overLimit int

	for _, token := range tokens {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		req := connect.NewRequest(&gachav1.StatusRequest{})
		req.Header().Set("Authorization", "Bearer "+token)

		resp, err := client.Status(ctx, req)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		recorded += int64(resp.Msg.TodayCount)
		if int(resp.Msg.TodayCount) > limit {
			overLimit++
		}
	}

	fmt.Printf("기록된 뽑기 (DB)   : %d\n", recorded)
	fmt.Printf("성공한 뽑기 (테스트): %d\n", expectedDraws)
	fmt.Printf("한도 초과 사용자   : %d\n", overLimit)

	if overLimit > 0 {
		return errors.New("over-draw 발생: 일일 한도를 넘은 사용자가 있습니다")
	}
	if recorded != expectedDraws {
		return fmt.Errorf("데이터 불일치: DB=%d, 테스트=%d, 차이=%d",
			recorded, expectedDraws, recorded-expectedDraws)
	}
	return nil
}
