package rodhost

// bindingName is the CDP runtime binding the page calls with event
// payloads.
const bindingName = "__ihHostEvent"

// Element scripts run with this bound to the element.
const (
	jsRootID = `() => {
		if (!this.dataset.ihId) {
			this.dataset.ihId = 'ih-' + Math.random().toString(36).slice(2, 10);
		}
		return this.dataset.ihId;
	}`

	jsGetDataset  = `(k) => (k in this.dataset) ? String(this.dataset[k]) : null`
	jsSetDataset  = `(k, v) => { this.dataset[k] = v; }`
	jsSetProperty = `(n, v) => { this.style.setProperty(n, v); }`

	jsGeometry = `() => {
		const r = this.getBoundingClientRect();
		const vv = window.visualViewport;
		return {
			scrollY: window.scrollY,
			rootTop: r.top + window.scrollY,
			rootHeight: r.height,
			viewportHeight: window.innerHeight,
			visualHeight: vv ? vv.height : 0,
			viewportWidth: window.innerWidth,
		};
	}`

	jsCanvasSize    = `() => [this.clientWidth, this.clientHeight]`
	jsSetBufferSize = `(w, h) => { this.width = w; this.height = h; }`
)

// jsInstall attaches every event stream of a root once. Events are posted
// to the binding as JSON with the root id. Two active touch pointers are
// turned into gesture events with a proportional zoom delta.
const jsInstall = `(id, canvasSel) => {
	if (this.__ihInstalled) return;
	this.__ihInstalled = true;
	const send = (e) => { e.root = id; window.` + bindingName + `(JSON.stringify(e)); };
	const canvas = this.querySelector(canvasSel) || this;

	const touches = new Map();
	let spread = 0;
	const distance = () => {
		const p = [...touches.values()];
		return Math.hypot(p[0].x - p[1].x, p[0].y - p[1].y);
	};
	const pointer = (ev) => {
		const r = canvas.getBoundingClientRect();
		const x = ev.clientX - r.left, y = ev.clientY - r.top;
		send({kind: 'pointer', type: ev.type, id: ev.pointerId, x, y,
			pointerType: ev.pointerType, primary: ev.isPrimary});
		if (ev.pointerType !== 'touch') return;
		if (ev.type === 'pointerdown' || ev.type === 'pointermove') {
			touches.set(ev.pointerId, {x, y});
		} else if (ev.type === 'pointerup' || ev.type === 'pointercancel') {
			touches.delete(ev.pointerId);
		}
		if (touches.size !== 2) {
			if (spread) send({kind: 'gesture', pointers: touches.size, zoom: 1});
			spread = 0;
			return;
		}
		const d = distance();
		if (spread > 0 && d > 0) send({kind: 'gesture', pointers: 2, zoom: d / spread});
		spread = d;
	};
	for (const t of ['pointerdown', 'pointerup', 'pointermove', 'pointerenter', 'pointerleave', 'pointercancel']) {
		this.addEventListener(t, pointer, {passive: true});
	}
	window.addEventListener('wheel', (ev) => send({kind: 'scroll', dx: ev.deltaX, dy: ev.deltaY}), {passive: true});
	window.addEventListener('keydown', (ev) => send({kind: 'key', key: ev.key}));
	new ResizeObserver(() => send({kind: 'resize'})).observe(this);
	document.addEventListener('visibilitychange', () =>
		send({kind: 'visibility', visible: document.visibilityState === 'visible'}));
	new IntersectionObserver((es) => send({kind: 'intersection', visible: es[es.length - 1].isIntersecting}))
		.observe(this);
	canvas.addEventListener('webglcontextlost', (ev) => { ev.preventDefault(); send({kind: 'contextlost'}); });
}`

// Page scripts for the capability probe.
const (
	jsUserAgent     = `() => navigator.userAgent`
	jsCoarsePointer = `() => window.matchMedia('(pointer: coarse)').matches`
	jsReducedMotion = `() => window.matchMedia('(prefers-reduced-motion: reduce)').matches`
	jsDPR           = `() => window.devicePixelRatio || 1`

	// jsGPU creates a throwaway canvas and reports what its context offers.
	jsGPU = `() => {
		const c = document.createElement('canvas');
		const gl2 = c.getContext('webgl2');
		const gl = gl2 || c.getContext('webgl') || c.getContext('experimental-webgl');
		if (!gl) return {available: false, depth: false, precision: 'low'};
		const depth = !!gl2 || !!gl.getExtension('WEBGL_depth_texture');
		const fmt = (p) => gl.getShaderPrecisionFormat(gl.FRAGMENT_SHADER, p);
		let precision = 'low';
		if (fmt(gl.HIGH_FLOAT).precision > 0) precision = 'high';
		else if (fmt(gl.MEDIUM_FLOAT).precision > 0) precision = 'medium';
		const lose = gl.getExtension('WEBGL_lose_context');
		if (lose) lose.loseContext();
		return {available: true, depth, precision};
	}`
)
