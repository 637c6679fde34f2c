package sim

const (
	stressFloor = 0.05
	stressCap   = 1.0
)

// DecayRate computes the instantaneous proportional decay rate of moisture
// toward the wilting point:
//
//	lambda = K_soil*lambda_base + K_crop*(c_temp*T + c_light*L)
//
// When moisture is at or below the wilting point the rate is scaled by a
// quadratic stress coefficient, floored at 0.05 so decay never fully stalls.
// Pure and deterministic; p.ThetaPWP must be positive (Params.Validate).
func DecayRate(temp, light, theta float64, p Params) float64 {
	lambdaSoil := p.LambdaBase * p.KSoil
	lambdaEnv := p.KCrop * (p.CTemp*temp + p.CLight*light)
	lambdaTotal := lambdaSoil + lambdaEnv

	if theta <= p.ThetaPWP {
		ratio := theta / p.ThetaPWP
		stress := ratio * ratio
		if stress < stressFloor {
			stress = stressFloor
		}
		if stress > stressCap {
			stress = stressCap
		}
		lambdaTotal *= stress
	}

	return lambdaTotal
}
